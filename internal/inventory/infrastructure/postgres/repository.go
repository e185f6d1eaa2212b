package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Provision inserts the stock row and appends the audit entry in the
// same transaction.
func (r *Repository) Provision(ctx context.Context, e domain.StockEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO warehouse_stocks (id, product_id, remaining, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.ID, e.ProductID, e.Remaining, e.Status, e.CreatedAt, e.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyStocked
		}
		return err
	}

	desc := fmt.Sprintf("Provisioned stock for product %s (%d on hand)", e.ProductID, e.Remaining)
	if _, err := tx.Exec(ctx, `
		INSERT INTO activity_log (action, description, status) VALUES ($1,$2,'pending')
	`, activity.ActionStockProvisioned, desc); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Restock bumps the remaining count under a row lock, re-derives the
// status, and appends the audit entry in the same transaction.
func (r *Repository) Restock(ctx context.Context, productID string, delta int) (domain.StockEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.StockEntry{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var e domain.StockEntry
	err = tx.QueryRow(ctx, `
		SELECT id, product_id, remaining, status, created_at, updated_at
		FROM warehouse_stocks WHERE product_id=$1 FOR UPDATE
	`, productID).Scan(&e.ID, &e.ProductID, &e.Remaining, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StockEntry{}, domain.ErrStockNotFound
	}
	if err != nil {
		return domain.StockEntry{}, err
	}

	e.Remaining += delta
	e.Status = domain.DeriveStatus(e.Remaining)
	if _, err := tx.Exec(ctx, `
		UPDATE warehouse_stocks SET remaining=$2, status=$3, updated_at=now()
		WHERE product_id=$1
	`, productID, e.Remaining, e.Status); err != nil {
		return domain.StockEntry{}, err
	}

	desc := fmt.Sprintf("Restocked product %s: +%d (now %d)", productID, delta, e.Remaining)
	if _, err := tx.Exec(ctx, `
		INSERT INTO activity_log (action, description, status) VALUES ($1,$2,'pending')
	`, activity.ActionStockRestocked, desc); err != nil {
		return domain.StockEntry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StockEntry{}, err
	}
	return e, nil
}

func (r *Repository) Get(ctx context.Context, productID string) (domain.StockEntry, error) {
	var e domain.StockEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, product_id, remaining, status, created_at, updated_at
		FROM warehouse_stocks WHERE product_id=$1
	`, productID).Scan(&e.ID, &e.ProductID, &e.Remaining, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StockEntry{}, domain.ErrStockNotFound
	}
	if err != nil {
		return domain.StockEntry{}, err
	}
	return e, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.StockEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, remaining, status, created_at, updated_at
		FROM warehouse_stocks ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StockEntry
	for rows.Next() {
		var e domain.StockEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Remaining, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
