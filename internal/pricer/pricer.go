// Package pricer turns a store's catalog and a grocery list into a priced basket.
package pricer

import (
	"shopsaver-api/internal/matcher"
	"shopsaver-api/internal/models"

	"github.com/shopspring/decimal"
)

// Pricer prices a grocery list against one store's catalog.
type Pricer struct {
	matcher matcher.Matcher
}

// New creates a pricer that resolves names with m.
func New(m matcher.Matcher) *Pricer {
	return &Pricer{matcher: m}
}

// Price matches every requested name against catalog and sums the matched prices
// exactly. Items and ItemsMissing keep the order of requested. An empty or nil
// catalog yields a result with every name missing.
func (p *Pricer) Price(store models.StoreInfo, requested []string, catalog []models.CatalogEntry) models.StoreComparison {
	result := models.StoreComparison{
		Store:        store,
		Items:        make([]models.ItemPrice, 0, len(requested)),
		TotalPrice:   decimal.Zero,
		ItemsMissing: make([]string, 0),
	}

	prepared := p.matcher.Prepare(catalog)
	for _, name := range requested {
		e, ok := p.matcher.Match(name, prepared)
		if !ok {
			result.ItemsMissing = append(result.ItemsMissing, name)
			continue
		}

		result.Items = append(result.Items, models.ItemPrice{
			ItemCode:         e.ItemCode,
			ItemName:         e.ItemName,
			Price:            e.Price,
			UnitOfMeasure:    e.UnitOfMeasure,
			ManufacturerName: e.ManufacturerName,
		})
		result.TotalPrice = result.TotalPrice.Add(e.Price)
	}
	result.ItemsFound = len(result.Items)

	return result
}
