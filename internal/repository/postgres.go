package repository

import (
	"context"
	"fmt"

	"shopsaver-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// radiusSlack widens the PostGIS prefilter. Geography distances are measured on the
// spheroid and can differ from the haversine distance used by the geo filter by a
// fraction of a percent, so the database must not cut stores the filter would keep.
const radiusSlack = 1.01

// Repository implements the catalog store on PostgreSQL/PostGIS
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("repository: ping: %w", err)
	}
	return nil
}

// StoresNear returns the stores with coordinates around the given point, nearest first.
// The result is a superset of the stores within radiusKm; callers apply the exact cut.
func (r *Repository) StoresNear(ctx context.Context, lat, lon, radiusKm float64) ([]models.Store, error) {
	sql := `
		SELECT
			id,
			chain_id,
			sub_chain_id,
			store_id,
			COALESCE(address, ''),
			COALESCE(city, ''),
			ST_Y(geom::geometry) AS latitude,
			ST_X(geom::geometry) AS longitude
		FROM stores
		WHERE geom IS NOT NULL
		  AND ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, id
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, radiusKm*1000*radiusSlack)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	stores := make([]models.Store, 0)
	for rows.Next() {
		var (
			s                  models.Store
			storeLat, storeLon float64
		)
		err := rows.Scan(
			&s.ID,
			&s.ChainID,
			&s.SubChainID,
			&s.StoreID,
			&s.Address,
			&s.City,
			&storeLat,
			&storeLon,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan store: %w", err)
		}
		s.Latitude, s.Longitude = &storeLat, &storeLon
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating stores: %w", err)
	}

	return stores, nil
}

// CatalogFor returns the current catalog of a store: the latest price of every item code.
// A store without items yields an empty catalog, not an error.
func (r *Repository) CatalogFor(ctx context.Context, storeID int64) ([]models.CatalogEntry, error) {
	sql := `
		SELECT DISTINCT ON (item_code)
			item_code,
			item_name,
			item_price::text,
			COALESCE(unit_of_measure, ''),
			COALESCE(manufacturer_name, '')
		FROM items
		WHERE store_pk = $1
		ORDER BY item_code, price_update_date DESC NULLS LAST
	`

	rows, err := r.db.Query(ctx, sql, storeID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query catalog of store %d: %w", storeID, err)
	}
	defer rows.Close()

	entries := make([]models.CatalogEntry, 0)
	for rows.Next() {
		var (
			e     models.CatalogEntry
			price string
		)
		if err := rows.Scan(&e.ItemCode, &e.ItemName, &price, &e.UnitOfMeasure, &e.ManufacturerName); err != nil {
			return nil, fmt.Errorf("repository: failed to scan catalog entry: %w", err)
		}
		e.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("repository: invalid price %q for item %s: %w", price, e.ItemCode, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating catalog: %w", err)
	}

	return entries, nil
}
