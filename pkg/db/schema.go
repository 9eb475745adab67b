package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is applied on every startup; each statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
        id          SERIAL PRIMARY KEY,
        name        TEXT NOT NULL UNIQUE,
        description TEXT,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id          SERIAL PRIMARY KEY,
        name        TEXT NOT NULL UNIQUE,
        description TEXT,
        price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
        stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
        image_url   TEXT,
        category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id)`,
	`CREATE TABLE IF NOT EXISTS orders (
        id            SERIAL PRIMARY KEY,
        customer_name TEXT NOT NULL,
        status        TEXT NOT NULL DEFAULT 'pending',
        created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS order_items (
        id                SERIAL PRIMARY KEY,
        order_id          INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
        product_id        INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
        quantity          INTEGER NOT NULL CHECK (quantity > 0),
        price_at_purchase NUMERIC(12,2) NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}
	return nil
}
