package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"shopsaver-api/internal/apperr"
	"shopsaver-api/internal/geo"
	"shopsaver-api/internal/models"
	"shopsaver-api/internal/pricer"
	"shopsaver-api/internal/ranker"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// StoreLocator finds stores around a point
type StoreLocator interface {
	StoresNear(ctx context.Context, lat, lon, radiusKm float64) ([]models.Store, error)
}

// CatalogSource loads the catalog of a single store
type CatalogSource interface {
	CatalogFor(ctx context.Context, storeID int64) ([]models.CatalogEntry, error)
}

// Config tunes the comparison service. Zero values fall back to defaults.
type Config struct {
	DefaultRadiusKm    float64
	MaxRadiusKm        float64
	MaxItems           int
	MaxConcurrency     int
	RequestTimeout     time.Duration
	ExcludeEmptyStores bool
}

// ComparisonService prices a grocery list at every store around the shopper and ranks the stores
type ComparisonService struct {
	stores   StoreLocator
	catalogs CatalogSource
	pricer   *pricer.Pricer
	ranker   ranker.Ranker
	cfg      Config
}

// NewComparisonService creates a new comparison service
func NewComparisonService(stores StoreLocator, catalogs CatalogSource, p *pricer.Pricer, r ranker.Ranker, cfg Config) *ComparisonService {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = 10
	}
	if cfg.MaxRadiusKm < cfg.DefaultRadiusKm {
		cfg.MaxRadiusKm = math.Max(100, cfg.DefaultRadiusKm)
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 100
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	return &ComparisonService{
		stores:   stores,
		catalogs: catalogs,
		pricer:   p,
		ranker:   r,
		cfg:      cfg,
	}
}

// NearbyStores lists the stores within the requested radius, nearest first
func (s *ComparisonService) NearbyStores(ctx context.Context, loc models.LocationQuery) ([]models.StoreInfo, error) {
	const op = "service: nearby stores"

	p, err := s.validateLocation(op, loc)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	return s.candidates(ctx, reqCtx, op, p)
}

// Compare prices the grocery list at every candidate store and picks the best one.
// Stores whose catalog cannot be loaded in time are left out of the result.
// RequestTimeout bounds the store lookup and the catalog fan-out together.
func (s *ComparisonService) Compare(ctx context.Context, req models.ComparisonRequest) (*models.ComparisonResult, error) {
	const op = "service: compare"

	p, err := s.validateLocation(op, req.UserLocation)
	if err != nil {
		return nil, err
	}

	items, err := s.groceryList(op, req.GroceryList)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	candidates, err := s.candidates(ctx, reqCtx, op, p)
	if err != nil {
		return nil, err
	}

	results, err := s.priceStores(ctx, reqCtx, op, candidates, items)
	if err != nil {
		return nil, err
	}

	if s.cfg.ExcludeEmptyStores {
		kept := results[:0]
		for _, r := range results {
			if r.ItemsFound > 0 {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	ordered, best := s.ranker.Rank(results)

	return &models.ComparisonResult{
		Stores:         ordered,
		BestStore:      best,
		RequestedItems: items,
	}, nil
}

// searchArea is a validated location.
type searchArea struct {
	lat, lon, radiusKm float64
}

func (s *ComparisonService) validateLocation(op string, loc models.LocationQuery) (searchArea, error) {
	lat, lon, ok := loc.Coordinates()
	if !ok {
		return searchArea{}, apperr.Validation(op, "missing coordinates: latitude and longitude are required")
	}
	if !geo.ValidCoordinates(lat, lon) {
		return searchArea{}, apperr.Validation(op, "invalid coordinates: latitude must be within [-90, 90] and longitude within [-180, 180]")
	}

	radius := loc.Radius(s.cfg.DefaultRadiusKm)
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return searchArea{}, apperr.Validation(op, "invalid radius_km: must be a positive number")
	}
	if radius > s.cfg.MaxRadiusKm {
		return searchArea{}, apperr.Validation(op, "invalid radius_km: must not exceed %g", s.cfg.MaxRadiusKm)
	}

	return searchArea{lat: lat, lon: lon, radiusKm: radius}, nil
}

// groceryList trims the names, drops blanks and exact duplicates, and keeps first-seen order.
func (s *ComparisonService) groceryList(op string, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	items := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		items = append(items, name)
	}

	if len(items) == 0 {
		return nil, apperr.Validation(op, "grocery list is empty")
	}
	if len(items) > s.cfg.MaxItems {
		return nil, apperr.Validation(op, "grocery list has %d items, at most %d are allowed", len(items), s.cfg.MaxItems)
	}

	return items, nil
}

// candidates runs the store lookup under reqCtx. Cancellation of the caller's ctx is
// returned as is; reqCtx expiring is a timeout.
func (s *ComparisonService) candidates(ctx, reqCtx context.Context, op string, area searchArea) ([]models.StoreInfo, error) {
	stores, err := await(reqCtx, func() ([]models.Store, error) {
		return s.stores.StoresNear(reqCtx, area.lat, area.lon, area.radiusKm)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Timeout(op, fmt.Sprintf("store lookup did not finish within %s", s.cfg.RequestTimeout), context.DeadlineExceeded)
		}
		return nil, apperr.Dependency(op, "store lookup failed", err)
	}

	return geo.Candidates(area.lat, area.lon, area.radiusKm, stores), nil
}

// priceStores fans out one task per candidate, bounded by MaxConcurrency, and
// collects the results in candidate order. Each task writes only its own slot.
func (s *ComparisonService) priceStores(ctx, reqCtx context.Context, op string, candidates []models.StoreInfo, items []string) ([]models.StoreComparison, error) {
	if len(candidates) == 0 {
		return []models.StoreComparison{}, nil
	}

	results := make([]models.StoreComparison, len(candidates))
	failures := make([]error, len(candidates))
	done := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, store := range candidates {
		i, store := i, store
		g.Go(func() error {
			if err := reqCtx.Err(); err != nil {
				failures[i] = err
				return nil
			}

			catalog, err := await(reqCtx, func() ([]models.CatalogEntry, error) {
				return s.catalogs.CatalogFor(reqCtx, store.ID)
			})
			if err != nil {
				failures[i] = err
				return nil
			}

			results[i] = s.pricer.Price(store, items, catalog)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	priced := make([]models.StoreComparison, 0, len(candidates))
	var (
		timedOut bool
		firstErr error
	)
	for i, store := range candidates {
		if done[i] {
			priced = append(priced, results[i])
			continue
		}

		failure := &apperr.StoreFailure{StoreID: store.ID, Err: failures[i]}
		log.Warn().Err(failure).Int64("store_id", store.ID).Str("chain_id", store.ChainID).Msg("store dropped from comparison")
		if errors.Is(failures[i], context.DeadlineExceeded) {
			timedOut = true
		}
		if firstErr == nil {
			firstErr = failure
		}
	}

	if dropped := len(candidates) - len(priced); dropped > 0 {
		log.Info().Int("candidates", len(candidates)).Int("dropped", dropped).Msg("comparison completed with partial store failures")
	}

	if len(priced) == 0 {
		if timedOut {
			return nil, apperr.Timeout(op, fmt.Sprintf("no store catalog loaded within %s", s.cfg.RequestTimeout), firstErr)
		}
		return nil, apperr.Dependency(op, "no store catalog could be loaded", firstErr)
	}

	return priced, nil
}

// await returns when fn finishes or ctx ends, whichever comes first, so a
// collaborator that ignores ctx cannot hold the request past its deadline.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	ch := make(chan outcome, 1)
	go func() {
		v, err := fn()
		ch <- outcome{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case o := <-ch:
		return o.value, o.err
	}
}
