package models

import "github.com/shopspring/decimal"

// Store is a physical branch as kept by the catalog store. Coordinates are optional;
// stores without them never take part in a distance search.
type Store struct {
	ID         int64    `json:"id"`
	ChainID    string   `json:"chain_id"`
	SubChainID int      `json:"sub_chain_id"`
	StoreID    int      `json:"store_id"`
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the store can be placed on a map.
func (s Store) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// StoreInfo is a Store annotated with its distance from the query point.
type StoreInfo struct {
	Store
	DistanceKm float64 `json:"distance_km"`
}

// CatalogEntry is one priced item of a single store's catalog.
type CatalogEntry struct {
	ItemCode         string          `json:"item_code"`
	ItemName         string          `json:"item_name"`
	NormalizedName   string          `json:"normalized_name,omitempty"`
	Price            decimal.Decimal `json:"price"`
	UnitOfMeasure    string          `json:"unit_of_measure,omitempty"`
	ManufacturerName string          `json:"manufacturer_name,omitempty"`
}
