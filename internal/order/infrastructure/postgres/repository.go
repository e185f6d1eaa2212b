package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	catalog "github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/order/application"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
)

const uniqueViolation = "23505"

// Store implements the engine's unit of work on a pgx pool. Each InTx call
// opens one transaction and hands the callback ledgers bound to it, so a
// failed placement leaves no trace in any table.
type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, led application.Ledgers) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	led := application.Ledgers{
		Stock:    &stockLedger{tx: tx},
		Orders:   &orderLedger{tx: tx},
		Activity: &activityLog{tx: tx},
		Catalog:  &catalogReader{tx: tx},
	}
	if err := fn(ctx, led); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type stockLedger struct {
	tx pgx.Tx
}

// Get locks the stock row for the rest of the transaction. Concurrent
// placements for the same product serialize here instead of racing the
// read-then-write.
func (l *stockLedger) Get(ctx context.Context, productID string) (inventory.StockEntry, error) {
	var e inventory.StockEntry
	err := l.tx.QueryRow(ctx, `
		SELECT id, product_id, remaining, status, created_at, updated_at
		FROM warehouse_stocks
		WHERE product_id = $1
		FOR UPDATE
	`, productID).Scan(&e.ID, &e.ProductID, &e.Remaining, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.StockEntry{}, inventory.ErrStockNotFound
	}
	if err != nil {
		return inventory.StockEntry{}, err
	}
	return e, nil
}

func (l *stockLedger) Update(ctx context.Context, productID string, remaining int, status inventory.Status) error {
	ct, err := l.tx.Exec(ctx, `
		UPDATE warehouse_stocks SET remaining=$2, status=$3, updated_at=now()
		WHERE product_id=$1
	`, productID, remaining, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return inventory.ErrStockNotFound
	}
	return nil
}

type orderLedger struct {
	tx pgx.Tx
}

func (l *orderLedger) NumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := l.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=$1)`, orderNumber).Scan(&exists)
	return exists, err
}

func (l *orderLedger) Create(ctx context.Context, o domain.Order) error {
	_, err := l.tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, product_id, customer_id, quantity, total_cents, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, o.ID, o.OrderNumber, o.ProductID, o.CustomerID, o.Quantity, o.TotalCents, o.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateOrderNumber
	}
	return err
}

type activityLog struct {
	tx pgx.Tx
}

func (l *activityLog) Append(ctx context.Context, action activity.Action, description string) error {
	_, err := l.tx.Exec(ctx, `
		INSERT INTO activity_log (action, description, status)
		VALUES ($1,$2,'pending')
	`, action, description)
	return err
}

type catalogReader struct {
	tx pgx.Tx
}

func (r *catalogReader) ProductName(ctx context.Context, productID string) (string, error) {
	var name string
	err := r.tx.QueryRow(ctx, `SELECT name FROM products WHERE id=$1`, productID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", catalog.ErrProductNotFound
	}
	return name, err
}

// Read side, outside the placement transaction.

func (s *Store) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, `
		SELECT id, order_number, product_id, customer_id, quantity, total_cents, created_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.OrderNumber, &o.ProductID, &o.CustomerID, &o.Quantity, &o.TotalCents, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_number, product_id, customer_id, quantity, total_cents, created_at
		FROM orders ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.ProductID, &o.CustomerID, &o.Quantity, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
