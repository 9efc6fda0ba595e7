package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shopsaver-api/internal/cache"
	"shopsaver-api/internal/config"
	"shopsaver-api/internal/handler"
	"shopsaver-api/internal/logging"
	"shopsaver-api/internal/matcher"
	"shopsaver-api/internal/pricer"
	"shopsaver-api/internal/ranker"
	"shopsaver-api/internal/repository"
	"shopsaver-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logging.Setup(config.LogLevel, config.Environment)
	if config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)

	catalogs, closeCache := catalogSource(ctx, config, repo)
	defer closeCache()

	strategy, err := ranker.New(config.RankingStrategy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ranking strategy")
	}

	textMatcher := matcher.NewTextMatcher(matcher.Config{
		EnableFuzzy:       config.EnableFuzzyMatching,
		FuzzyEditDistance: config.FuzzyEditDistance,
	})

	comparisonService := service.NewComparisonService(repo, catalogs, pricer.New(textMatcher), strategy, service.Config{
		DefaultRadiusKm:    config.DefaultRadiusKm,
		MaxRadiusKm:        config.MaxRadiusKm,
		MaxItems:           config.MaxItems,
		MaxConcurrency:     config.MaxConcurrency,
		RequestTimeout:     config.RequestTimeout,
		ExcludeEmptyStores: config.ExcludeEmptyStores,
	})

	comparisonHandler := handler.NewComparisonHandler(comparisonService)
	healthHandler := handler.NewHealthHandler(repo)

	r := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: config.CORSAllowedOrigins,
		RateLimitRPS:   config.RateLimitRPS,
		RateLimitBurst: config.RateLimitBurst,
	}, comparisonHandler, healthHandler)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("address", config.ServerAddress).Str("ranking", config.RankingStrategy).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// catalogSource puts the configured cache in front of the repository.
func catalogSource(ctx context.Context, config config.Config, repo *repository.Repository) (service.CatalogSource, func()) {
	switch config.CacheBackend {
	case "memory":
		mem := cache.NewMemoryCache(time.Minute)
		log.Info().Dur("ttl", config.CacheTTL).Msg("using in-memory catalog cache")
		return cache.NewCachedCatalog(repo, mem, config.CacheTTL), mem.Close
	case "redis":
		rdb, err := cache.NewRedisCache(ctx, config.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to redis")
		}
		log.Info().Dur("ttl", config.CacheTTL).Msg("using redis catalog cache")
		return cache.NewCachedCatalog(repo, rdb, config.CacheTTL), func() { _ = rdb.Close() }
	default:
		return repo, func() {}
	}
}
