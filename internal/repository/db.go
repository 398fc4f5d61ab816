package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the catalogue and order tables. It is safe to run repeatedly.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		price       DECIMAL(10,2) NOT NULL CHECK (price >= 0),
		image       TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rating      NUMERIC(2,1) NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
		in_stock    BOOLEAN NOT NULL DEFAULT TRUE,
		stock       INTEGER CHECK (stock >= 0),
		created_at  TIMESTAMPTZ,
		popularity  DOUBLE PRECISION,
		position    INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_position ON products(position, id);

	CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		email          TEXT,
		payment_method TEXT NOT NULL CHECK (payment_method IN ('card', 'apple', 'google')),
		subtotal       DECIMAL(12,2) NOT NULL,
		delivery_fee   DECIMAL(12,2) NOT NULL,
		total          DECIMAL(12,2) NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id           UUID PRIMARY KEY,
		order_id     UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id   TEXT NOT NULL,
		product_name TEXT NOT NULL,
		unit_price   DECIMAL(10,2) NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		position     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
