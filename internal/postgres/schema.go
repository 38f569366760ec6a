package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables the order core owns plus the minimal profile
// tables (farmers, buyers) the ledger joins against for dashboard rows.
// All statements are idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS farmers (
			id             BIGSERIAL PRIMARY KEY,
			name           TEXT NOT NULL,
			pickup_address TEXT NOT NULL DEFAULT '',
			city           TEXT NOT NULL DEFAULT '',
			state          TEXT NOT NULL DEFAULT '',
			pincode        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS buyers (
			id              BIGSERIAL PRIMARY KEY,
			name            TEXT NOT NULL,
			default_address TEXT NOT NULL DEFAULT '',
			city            TEXT NOT NULL DEFAULT '',
			state           TEXT NOT NULL DEFAULT '',
			pincode         TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id             BIGSERIAL PRIMARY KEY,
			farmer_id      BIGINT NOT NULL REFERENCES farmers(id),
			name           TEXT NOT NULL,
			unit           TEXT NOT NULL DEFAULT 'kg',
			price          NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			status         TEXT NOT NULL DEFAULT 'active'
				CHECK (status IN ('active','inactive','out_of_stock')),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id                BIGSERIAL PRIMARY KEY,
			order_number      TEXT NOT NULL UNIQUE,
			buyer_id          BIGINT NOT NULL REFERENCES buyers(id),
			farmer_id         BIGINT NOT NULL REFERENCES farmers(id),
			product_id        BIGINT NOT NULL REFERENCES products(id),
			quantity          INT NOT NULL CHECK (quantity > 0),
			unit_price        NUMERIC(10,2) NOT NULL,
			total_amount      NUMERIC(12,2) NOT NULL,
			commission_rate   NUMERIC(5,2) NOT NULL DEFAULT 5.00,
			commission_amount NUMERIC(12,2) NOT NULL,
			delivery_address  TEXT NOT NULL,
			delivery_city     TEXT NOT NULL DEFAULT '',
			delivery_state    TEXT NOT NULL DEFAULT '',
			delivery_pincode  TEXT NOT NULL DEFAULT '',
			payment_method    TEXT NOT NULL DEFAULT 'cod',
			status            TEXT NOT NULL DEFAULT 'placed'
				CHECK (status IN ('placed','accepted','shipped','delivered','cancelled')),
			cancel_reason     TEXT NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_farmer ON orders(farmer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE TABLE IF NOT EXISTS logistics (
			id                 BIGSERIAL PRIMARY KEY,
			order_id           BIGINT NOT NULL UNIQUE REFERENCES orders(id),
			courier_name       TEXT,
			tracking_number    TEXT,
			estimated_delivery TIMESTAMPTZ,
			actual_delivery    TIMESTAMPTZ,
			pod_upload_url     TEXT,
			status             TEXT NOT NULL DEFAULT 'picked'
				CHECK (status IN ('picked','in_transit','out_for_delivery','delivered','failed','returned')),
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
