package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"shopsaver-api/internal/cache"
	"shopsaver-api/internal/config"
	"shopsaver-api/internal/logging"
	"shopsaver-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// StoreRecord is one row of the stores fixture:
// chain_id,sub_chain_id,store_id,address,city,latitude,longitude
type StoreRecord struct {
	ChainID    string
	SubChainID int
	StoreID    int
	Address    string
	City       string
	Lat        *float64
	Lon        *float64
}

// ItemRecord is one row of the items fixture:
// chain_id,sub_chain_id,store_id,item_code,item_name,manufacturer_name,unit_of_measure,item_price,price_update_date
type ItemRecord struct {
	Store            storeKey
	ItemCode         string
	ItemName         string
	ManufacturerName string
	UnitOfMeasure    string
	Price            decimal.Decimal
	PriceUpdateDate  *time.Time
}

type storeKey struct {
	ChainID    string
	SubChainID int
	StoreID    int
}

func main() {
	storesFile := flag.String("stores", "", "Path to the stores CSV file")
	itemsFile := flag.String("items", "", "Path to the items CSV file")
	flag.Parse()

	if *storesFile == "" {
		fmt.Println("Error: --stores flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Environment)

	stores, err := readFile(*storesFile, parseStores)
	if err != nil {
		log.Fatal().Err(err).Str("file", *storesFile).Msg("cannot parse stores")
	}
	log.Info().Int("stores", len(stores)).Msg("parsed stores")

	var items []ItemRecord
	if *itemsFile != "" {
		items, err = readFile(*itemsFile, parseItems)
		if err != nil {
			log.Fatal().Err(err).Str("file", *itemsFile).Msg("cannot parse items")
		}
		log.Info().Int("items", len(items)).Msg("parsed items")
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, repository.Schema); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	if err := insertStores(ctx, conn, stores); err != nil {
		log.Fatal().Err(err).Msg("cannot insert stores")
	}

	if len(items) > 0 {
		ids, err := storeIDs(ctx, conn)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load store ids")
		}
		if err := insertItems(ctx, conn, ids, items); err != nil {
			log.Fatal().Err(err).Msg("cannot insert items")
		}
		if cfg.CacheBackend == "redis" {
			invalidateCatalogs(ctx, cfg.RedisURL, ids, items)
		}
	}

	if err := verifyImport(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("import verification failed")
	}

	log.Info().Int("stores", len(stores)).Int("items", len(items)).Msg("import finished")
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return parse(file)
}

// readRecords returns every row after the header, rejecting rows with fewer than minFields columns.
func readRecords(r io.Reader, minFields int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < minFields {
			return nil, fmt.Errorf("line %d: invalid record length %d, expected at least %d columns", line, len(record), minFields)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		records = append(records, record)
	}

	return records, nil
}

func parseStores(r io.Reader) ([]StoreRecord, error) {
	records, err := readRecords(r, 7)
	if err != nil {
		return nil, err
	}

	stores := make([]StoreRecord, 0, len(records))
	for i, record := range records {
		key, err := parseStoreKey(record[0:3])
		if err != nil {
			return nil, fmt.Errorf("store %d: %w", i+1, err)
		}

		lat, err := optionalFloat(record[5])
		if err != nil {
			return nil, fmt.Errorf("store %d: invalid latitude: %s", i+1, record[5])
		}
		lon, err := optionalFloat(record[6])
		if err != nil {
			return nil, fmt.Errorf("store %d: invalid longitude: %s", i+1, record[6])
		}
		if (lat == nil) != (lon == nil) {
			return nil, fmt.Errorf("store %d: latitude and longitude must both be set or both be empty", i+1)
		}

		stores = append(stores, StoreRecord{
			ChainID:    key.ChainID,
			SubChainID: key.SubChainID,
			StoreID:    key.StoreID,
			Address:    record[3],
			City:       record[4],
			Lat:        lat,
			Lon:        lon,
		})
	}

	return stores, nil
}

func parseItems(r io.Reader) ([]ItemRecord, error) {
	records, err := readRecords(r, 9)
	if err != nil {
		return nil, err
	}

	items := make([]ItemRecord, 0, len(records))
	for i, record := range records {
		key, err := parseStoreKey(record[0:3])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if record[3] == "" || record[4] == "" {
			return nil, fmt.Errorf("item %d: item_code and item_name are required", i+1)
		}

		price, err := decimal.NewFromString(record[7])
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("item %d: invalid price: %s", i+1, record[7])
		}

		var updated *time.Time
		if record[8] != "" {
			t, err := parseTimestamp(record[8])
			if err != nil {
				return nil, fmt.Errorf("item %d: invalid price_update_date: %s", i+1, record[8])
			}
			updated = &t
		}

		items = append(items, ItemRecord{
			Store:            key,
			ItemCode:         record[3],
			ItemName:         record[4],
			ManufacturerName: record[5],
			UnitOfMeasure:    record[6],
			Price:            price,
			PriceUpdateDate:  updated,
		})
	}

	return items, nil
}

func parseStoreKey(fields []string) (storeKey, error) {
	if fields[0] == "" {
		return storeKey{}, errors.New("chain_id is required")
	}
	sub, err := strconv.Atoi(fields[1])
	if err != nil {
		return storeKey{}, fmt.Errorf("invalid sub_chain_id: %s", fields[1])
	}
	store, err := strconv.Atoi(fields[2])
	if err != nil {
		return storeKey{}, fmt.Errorf("invalid store_id: %s", fields[2])
	}
	return storeKey{ChainID: fields[0], SubChainID: sub, StoreID: store}, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func insertStores(ctx context.Context, conn *pgx.Conn, stores []StoreRecord) error {
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"stores"},
		[]string{"chain_id", "sub_chain_id", "store_id", "address", "city", "geom"},
		pgx.CopyFromSlice(len(stores), func(i int) ([]any, error) {
			s := stores[i]
			var geom any
			if s.Lat != nil {
				geom = fmt.Sprintf("SRID=4326;POINT(%f %f)", *s.Lon, *s.Lat) // PostGIS format: lon lat
			}
			return []any{s.ChainID, s.SubChainID, s.StoreID, s.Address, s.City, geom}, nil
		}),
	)
	return err
}

func storeIDs(ctx context.Context, conn *pgx.Conn) (map[storeKey]int64, error) {
	rows, err := conn.Query(ctx, "SELECT id, chain_id, sub_chain_id, store_id FROM stores")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[storeKey]int64)
	for rows.Next() {
		var (
			id  int64
			key storeKey
		)
		if err := rows.Scan(&id, &key.ChainID, &key.SubChainID, &key.StoreID); err != nil {
			return nil, err
		}
		ids[key] = id
	}
	return ids, rows.Err()
}

func insertItems(ctx context.Context, conn *pgx.Conn, ids map[storeKey]int64, items []ItemRecord) error {
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"items"},
		[]string{"store_pk", "item_code", "item_name", "manufacturer_name", "unit_of_measure", "item_price", "price_update_date"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			it := items[i]
			storePK, ok := ids[it.Store]
			if !ok {
				return nil, fmt.Errorf("item %s references unknown store %s/%d/%d", it.ItemCode, it.Store.ChainID, it.Store.SubChainID, it.Store.StoreID)
			}

			var price pgtype.Numeric
			if err := price.Scan(it.Price.String()); err != nil {
				return nil, err
			}

			var updated any
			if it.PriceUpdateDate != nil {
				updated = *it.PriceUpdateDate
			}
			return []any{storePK, it.ItemCode, it.ItemName, it.ManufacturerName, it.UnitOfMeasure, price, updated}, nil
		}),
	)
	return err
}

// invalidateCatalogs drops the shared cached catalogs of every store that received items.
func invalidateCatalogs(ctx context.Context, redisURL string, ids map[storeKey]int64, items []ItemRecord) {
	rdb, err := cache.NewRedisCache(ctx, redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("cannot reach catalog cache, cached catalogs expire on their TTL")
		return
	}
	defer rdb.Close()

	touched := make(map[int64]struct{})
	for _, it := range items {
		touched[ids[it.Store]] = struct{}{}
	}
	for id := range touched {
		if err := rdb.Delete(ctx, cache.CatalogKey(id)); err != nil {
			log.Warn().Err(err).Int64("store_id", id).Msg("cannot invalidate cached catalog")
		}
	}
	log.Info().Int("stores", len(touched)).Msg("cached catalogs invalidated")
}

func verifyImport(ctx context.Context, conn *pgx.Conn) error {
	var stores, located, items int
	err := conn.QueryRow(ctx, "SELECT COUNT(*), COUNT(geom) FROM stores").Scan(&stores, &located)
	if err != nil {
		return fmt.Errorf("failed to count stores: %w", err)
	}
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}

	log.Info().Int("stores", stores).Int("located_stores", located).Int("items", items).Msg("database totals")
	return nil
}
