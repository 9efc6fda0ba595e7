package main

import (
	"bytes"
	"testing"

	"shopsaver-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBasketTable(t *testing.T) {
	best := models.StoreComparison{
		Store:        models.StoreInfo{Store: models.Store{ID: 1, ChainID: "7290027600007"}, DistanceKm: 0.55},
		TotalPrice:   decimal.RequireFromString("14.4"),
		ItemsFound:   2,
		ItemsMissing: []string{},
	}
	other := models.StoreComparison{
		Store:        models.StoreInfo{Store: models.Store{ID: 2, ChainID: "7290172900007"}, DistanceKm: 0.2},
		TotalPrice:   decimal.RequireFromString("5.9"),
		ItemsFound:   1,
		ItemsMissing: []string{"bread"},
	}

	var buf bytes.Buffer
	err := writeBasketTable(&buf, &models.ComparisonResult{
		Stores:         []models.StoreComparison{best, other},
		BestStore:      &best,
		RequestedItems: []string{"milk", "bread"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "14.40")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "bread")
	assert.Contains(t, out, "Best store: 1 (7290027600007), total 14.40 for 2 of 2 items")
}

func TestWriteBasketTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBasketTable(&buf, &models.ComparisonResult{Stores: []models.StoreComparison{}}))
	assert.Equal(t, "No stores found in range.\n", buf.String())
}

func TestWriteBasketTable_NoBest(t *testing.T) {
	var buf bytes.Buffer
	err := writeBasketTable(&buf, &models.ComparisonResult{
		Stores: []models.StoreComparison{{
			Store:        models.StoreInfo{Store: models.Store{ID: 3, ChainID: "7290027600007"}},
			TotalPrice:   decimal.Zero,
			ItemsMissing: []string{"caviar"},
		}},
		RequestedItems: []string{"caviar"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No store carries any of the requested items.")
}
