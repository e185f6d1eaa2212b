package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	"github.com/rmehta2304/warehouse-order-system/pkg/outbox"
)

// Store reads the activity ledger and serves as the relay's outbox source.
// Writes happen elsewhere, inside the transactions that cause the entries.
type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, description, created_at
		FROM activity_log ORDER BY created_at DESC, id DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Entry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, action, description, created_at
		FROM activity_log
		WHERE status = 'pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}

	var entries []outbox.Entry
	for rows.Next() {
		var e outbox.Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.Description, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE activity_log SET status='in_progress', relay_id=$1, lease_until=now() + $2::interval
		WHERE id = ANY($3)
	`, relayID, lease.String(), ids); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE activity_log SET status='sent' WHERE id = ANY($1)`, ids)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE activity_log SET status='failed', last_error=$2, retry_count=retry_count+1
		WHERE id=$1
	`, id, errMsg)
	return err
}

// ReclaimExpired flips entries whose relay died mid-lease back to pending.
func (s *Store) ReclaimExpired(ctx context.Context) (int64, error) {
	ct, err := s.pool.Exec(ctx, `
		UPDATE activity_log SET status='pending', relay_id=NULL, lease_until=NULL
		WHERE status='in_progress' AND lease_until < now()
	`)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
