package repository

// Schema creates the tables read by the repository. Store coordinates are nullable;
// items keep their price history, one row per price_update_date.
const Schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS stores (
	id BIGSERIAL PRIMARY KEY,
	chain_id VARCHAR NOT NULL,
	sub_chain_id INTEGER NOT NULL,
	store_id INTEGER NOT NULL,
	address TEXT,
	city VARCHAR(100),
	geom GEOGRAPHY(POINT, 4326),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (chain_id, sub_chain_id, store_id)
);
CREATE INDEX IF NOT EXISTS stores_geom_idx ON stores USING GIST (geom);

CREATE TABLE IF NOT EXISTS items (
	id BIGSERIAL PRIMARY KEY,
	store_pk BIGINT NOT NULL REFERENCES stores(id),
	item_code VARCHAR NOT NULL,
	item_name VARCHAR NOT NULL,
	manufacturer_name VARCHAR,
	unit_of_measure VARCHAR,
	item_price NUMERIC(10, 4) NOT NULL CHECK (item_price >= 0),
	price_update_date TIMESTAMPTZ,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (store_pk, item_code, price_update_date)
);
CREATE INDEX IF NOT EXISTS items_store_code_idx ON items (store_pk, item_code, price_update_date DESC);
`
