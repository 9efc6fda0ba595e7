package models

import "github.com/shopspring/decimal"

func init() {
	// Prices leave the API as JSON numbers; they are exact decimals internally.
	decimal.MarshalJSONWithoutQuotes = true
}

// ComparisonRequest is the body of POST /api/compare-prices.
type ComparisonRequest struct {
	UserLocation LocationQuery `json:"user_location" binding:"required"`
	GroceryList  []string      `json:"grocery_list" binding:"required,min=1"`
}

// ItemPrice is a grocery-list entry resolved to a catalog line.
type ItemPrice struct {
	ItemCode         string          `json:"item_code"`
	ItemName         string          `json:"item_name"`
	Price            decimal.Decimal `json:"price"`
	UnitOfMeasure    string          `json:"unit_of_measure,omitempty"`
	ManufacturerName string          `json:"manufacturer_name,omitempty"`
}

// StoreComparison is the priced basket of one candidate store.
// ItemsFound+len(ItemsMissing) always equals the number of requested items.
type StoreComparison struct {
	Store        StoreInfo       `json:"store"`
	Items        []ItemPrice     `json:"items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	ItemsFound   int             `json:"items_found"`
	ItemsMissing []string        `json:"items_missing"`
}

// ComparisonResult is the response of a price comparison.
type ComparisonResult struct {
	Stores         []StoreComparison `json:"stores"`
	BestStore      *StoreComparison  `json:"best_store,omitempty"`
	RequestedItems []string          `json:"requested_items"`
}
