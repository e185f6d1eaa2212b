package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/rmehta2304/warehouse-order-system/internal/metrics"
)

type Store interface {
	// LockBatch marks up to batchSize pending entries in_progress under a
	// lease for relayID and returns them, oldest first.
	LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Entry, error)
	MarkSent(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ReclaimExpired(ctx context.Context) (int64, error)
}

type Relay struct {
	log       *slog.Logger
	store     Store
	dispatch  *Dispatcher
	met       *metrics.Registry
	relayID   string
	batchSize int
	interval  time.Duration
	lease     time.Duration
}

func NewRelay(log *slog.Logger, store Store, dispatch *Dispatcher, met *metrics.Registry, relayID string) *Relay {
	return &Relay{
		log:       log,
		store:     store,
		dispatch:  dispatch,
		met:       met,
		relayID:   relayID,
		batchSize: 100,
		interval:  500 * time.Millisecond,
		lease:     5 * time.Second,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("activity relay stopping", "relay_id", r.relayID)
			return nil
		case <-t.C:
			if n, err := r.store.ReclaimExpired(ctx); err != nil {
				r.log.Error("relay reclaim error", "err", err)
			} else if n > 0 {
				r.log.Warn("reclaimed expired activity leases", "count", n)
			}

			entries, err := r.store.LockBatch(ctx, r.relayID, r.batchSize, r.lease)
			if err != nil {
				r.log.Error("relay lock batch error", "err", err)
				continue
			}
			if len(entries) == 0 {
				continue
			}

			sent := make([]int64, 0, len(entries))
			for _, e := range entries {
				if err := r.dispatch.Dispatch(ctx, e); err != nil {
					r.met.ActivityPublishFailed.Inc()
					_ = r.store.MarkFailed(ctx, e.ID, err.Error())
					continue
				}
				r.met.ActivityPublished.Inc()
				sent = append(sent, e.ID)
			}
			if len(sent) > 0 {
				if err := r.store.MarkSent(ctx, sent); err != nil {
					r.log.Error("relay mark sent error", "err", err)
				}
			}
		}
	}
}
