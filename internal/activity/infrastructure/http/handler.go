package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	"github.com/rmehta2304/warehouse-order-system/pkg/httpjson"
)

const defaultLimit = 20

var errBadLimit = errors.New("limit must be a positive integer")

type Reader interface {
	Recent(ctx context.Context, limit int) ([]domain.Entry, error)
}

type Handler struct {
	log    *slog.Logger
	reader Reader
}

func NewHandler(log *slog.Logger, reader Reader) *Handler {
	return &Handler{log: log, reader: reader}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/activities", h.recent)
	return r
}

type entryResp struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpjson.Error(w, http.StatusBadRequest, "validation_error", errBadLimit.Error())
			return
		}
		limit = n
	}
	entries, err := h.reader.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error("list activities failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	out := make([]entryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResp{
			Action:      string(e.Action),
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	httpjson.Write(w, http.StatusOK, out)
}
