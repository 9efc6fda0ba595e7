// Package ranker orders priced baskets and picks the best store.
package ranker

import (
	"fmt"
	"sort"

	"shopsaver-api/internal/models"
)

// Ranker orders store results and designates the best one, if any.
type Ranker interface {
	Rank(results []models.StoreComparison) ([]models.StoreComparison, *models.StoreComparison)
}

const (
	StrategyCoverage = "coverage"
	StrategyPrice    = "price"
)

// New returns the ranker registered under strategy.
func New(strategy string) (Ranker, error) {
	switch strategy {
	case "", StrategyCoverage:
		return CoverageRanker{}, nil
	case StrategyPrice:
		return PriceRanker{}, nil
	default:
		return nil, fmt.Errorf("ranker: unknown strategy %q", strategy)
	}
}

// CoverageRanker prefers the store that carries more of the list, then the cheaper one.
// A cheap store holding one item out of ten does not beat a complete basket.
type CoverageRanker struct{}

func (CoverageRanker) Rank(results []models.StoreComparison) ([]models.StoreComparison, *models.StoreComparison) {
	return rank(results, func(a, b models.StoreComparison) int {
		if a.ItemsFound != b.ItemsFound {
			return b.ItemsFound - a.ItemsFound
		}
		return a.TotalPrice.Cmp(b.TotalPrice)
	})
}

// PriceRanker orders by ascending total first and by items found second.
type PriceRanker struct{}

func (PriceRanker) Rank(results []models.StoreComparison) ([]models.StoreComparison, *models.StoreComparison) {
	return rank(results, func(a, b models.StoreComparison) int {
		if c := a.TotalPrice.Cmp(b.TotalPrice); c != 0 {
			return c
		}
		return b.ItemsFound - a.ItemsFound
	})
}

// rank sorts a copy of results with cmp, breaking remaining ties by distance and
// store id. Best is the first ordered store that found at least one item; with
// the coverage ordering that is always the head of the list.
func rank(results []models.StoreComparison, cmp func(a, b models.StoreComparison) int) ([]models.StoreComparison, *models.StoreComparison) {
	ordered := make([]models.StoreComparison, len(results))
	copy(ordered, results)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		if a.Store.DistanceKm != b.Store.DistanceKm {
			return a.Store.DistanceKm < b.Store.DistanceKm
		}
		return a.Store.ID < b.Store.ID
	})

	var best *models.StoreComparison
	for i := range ordered {
		if ordered[i].ItemsFound > 0 {
			b := ordered[i]
			best = &b
			break
		}
	}

	return ordered, best
}
