// compare runs a price comparison against the catalog database from the command line.
//
// Usage:
//
//	compare basket --lat 32.0853 --lon 34.7818 --item milk --item bread
//	compare stores --lat 32.0853 --lon 34.7818 --radius 3
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"shopsaver-api/internal/config"
	"shopsaver-api/internal/logging"
	"shopsaver-api/internal/matcher"
	"shopsaver-api/internal/models"
	"shopsaver-api/internal/pricer"
	"shopsaver-api/internal/ranker"
	"shopsaver-api/internal/repository"
	"shopsaver-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "compare",
		Usage: "Compare grocery basket prices across nearby stores",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "./configs",
				Usage:   "Directory holding app.env",
				EnvVars: []string{"SHOPSAVER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			basketCommand(),
			storesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func locationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "lat", Usage: "Latitude of the shopper", Required: true},
		&cli.Float64Flag{Name: "lon", Usage: "Longitude of the shopper", Required: true},
		&cli.Float64Flag{Name: "radius", Aliases: []string{"r"}, Usage: "Search radius in km (default from config)"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "table", Usage: "Output format (table, json)"},
	}
}

func basketCommand() *cli.Command {
	return &cli.Command{
		Name:  "basket",
		Usage: "Price a grocery list at every nearby store",
		Flags: append(locationFlags(),
			&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Usage: "Grocery list entry (repeatable)", Required: true},
			&cli.StringFlag{Name: "ranking", Usage: "Ranking strategy (coverage, price); default from config"},
		),
		Action: runBasket,
	}
}

func storesCommand() *cli.Command {
	return &cli.Command{
		Name:   "stores",
		Usage:  "List stores around a location",
		Flags:  locationFlags(),
		Action: runStores,
	}
}

func runBasket(c *cli.Context) error {
	svc, closeDB, err := newService(c)
	if err != nil {
		return err
	}
	defer closeDB()

	result, err := svc.Compare(c.Context, models.ComparisonRequest{
		UserLocation: location(c),
		GroceryList:  c.StringSlice("item"),
	})
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, result)
	}
	return writeBasketTable(c.App.Writer, result)
}

func runStores(c *cli.Context) error {
	svc, closeDB, err := newService(c)
	if err != nil {
		return err
	}
	defer closeDB()

	stores, err := svc.NearbyStores(c.Context, location(c))
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, stores)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCHAIN\tSTORE\tCITY\tDISTANCE (KM)")
	for _, s := range stores {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%.2f\n", s.ID, s.ChainID, s.StoreID, s.City, s.DistanceKm)
	}
	return tw.Flush()
}

func location(c *cli.Context) models.LocationQuery {
	loc := models.NewLocationQuery(c.Float64("lat"), c.Float64("lon"))
	if c.IsSet("radius") {
		loc = loc.WithRadius(c.Float64("radius"))
	}
	return loc
}

func newService(c *cli.Context) (*service.ComparisonService, func(), error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(c.String("log-level"), cfg.Environment)

	strategyName := cfg.RankingStrategy
	if c.IsSet("ranking") {
		strategyName = c.String("ranking")
	}
	strategy, err := ranker.New(strategyName)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(context.Background(), cfg.DBSource)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	repo := repository.NewRepository(pool)

	textMatcher := matcher.NewTextMatcher(matcher.Config{
		EnableFuzzy:       cfg.EnableFuzzyMatching,
		FuzzyEditDistance: cfg.FuzzyEditDistance,
	})

	svc := service.NewComparisonService(repo, repo, pricer.New(textMatcher), strategy, service.Config{
		DefaultRadiusKm:    cfg.DefaultRadiusKm,
		MaxRadiusKm:        cfg.MaxRadiusKm,
		MaxItems:           cfg.MaxItems,
		MaxConcurrency:     cfg.MaxConcurrency,
		RequestTimeout:     cfg.RequestTimeout,
		ExcludeEmptyStores: cfg.ExcludeEmptyStores,
	})

	return svc, pool.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeBasketTable(w io.Writer, result *models.ComparisonResult) error {
	if len(result.Stores) == 0 {
		_, err := fmt.Fprintln(w, "No stores found in range.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTORE\tCHAIN\tDISTANCE (KM)\tFOUND\tTOTAL\tMISSING")
	for i, s := range result.Stores {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%d/%d\t%s\t%s\n",
			i+1, s.Store.ID, s.Store.ChainID, s.Store.DistanceKm,
			s.ItemsFound, len(result.RequestedItems), s.TotalPrice.StringFixed(2),
			strings.Join(s.ItemsMissing, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if result.BestStore != nil {
		_, err := fmt.Fprintf(w, "\nBest store: %d (%s), total %s for %d of %d items\n",
			result.BestStore.Store.ID, result.BestStore.Store.ChainID,
			result.BestStore.TotalPrice.StringFixed(2), result.BestStore.ItemsFound, len(result.RequestedItems))
		return err
	}
	_, err := fmt.Fprintln(w, "\nNo store carries any of the requested items.")
	return err
}
