package idempotency

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rmehta2304/warehouse-order-system/pkg/httpjson"
)

// Recorder is the key store the middleware checks against. *Store
// implements it on Redis.
type Recorder interface {
	Key(method, path, clientKey string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Middleware rejects replays of requests carrying an Idempotency-Key
// header. The key is claimed up front so concurrent duplicates race on
// a single SETNX, but it is released again when the response is an
// error: nothing committed, and the caller's retry must go through.
// Requests without the header pass through. If Redis is unreachable the
// request is let through rather than failed: the storage-level
// constraints remain the hard guarantee.
func Middleware(log *slog.Logger, store Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get("Idempotency-Key")
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := store.Key(r.Method, r.URL.Path, clientKey)
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				httpjson.Error(w, http.StatusConflict, "duplicate_request", "idempotency key already used")
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if sw.status >= http.StatusBadRequest {
				if err := store.Release(r.Context(), key); err != nil {
					log.Error("idempotency release failed", "err", err, "key", key)
				}
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
