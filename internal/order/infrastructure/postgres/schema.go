package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates every table the service owns. The UNIQUE constraint on
// orders.order_number is the storage-level backstop for the engine's
// in-transaction uniqueness check.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id         TEXT PRIMARY KEY,
			code       TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			region     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS warehouse_stocks (
			id         TEXT PRIMARY KEY,
			product_id TEXT NOT NULL UNIQUE,
			remaining  INT NOT NULL CHECK (remaining >= 0),
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id           TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			product_id   TEXT NOT NULL,
			customer_id  TEXT NOT NULL,
			quantity     INT NOT NULL CHECK (quantity >= 1),
			total_cents  BIGINT NOT NULL CHECK (total_cents >= 0),
			created_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id          BIGSERIAL PRIMARY KEY,
			action      TEXT NOT NULL,
			description TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'pending',
			relay_id    TEXT,
			lease_until TIMESTAMPTZ,
			retry_count INT NOT NULL DEFAULT 0,
			last_error  TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS activity_log_pending_idx ON activity_log (id) WHERE status = 'pending'`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
