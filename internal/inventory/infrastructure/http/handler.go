package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rmehta2304/warehouse-order-system/internal/inventory/application"
	"github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/pkg/httpjson"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/stocks", h.provision)
	r.Get("/stocks", h.list)
	r.Get("/stocks/{productId}", h.get)
	r.Post("/stocks/{productId}/restock", h.restock)
	return r
}

type provisionReq struct {
	ProductID string `json:"product_id"`
	Remaining int    `json:"remaining"`
}

type restockReq struct {
	Quantity int `json:"quantity"`
}

type stockResp struct {
	ProductID string `json:"product_id"`
	Remaining int    `json:"remaining"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

func toStockResp(e domain.StockEntry) stockResp {
	return stockResp{
		ProductID: e.ProductID,
		Remaining: e.Remaining,
		Status:    string(e.Status),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (h *Handler) provision(w http.ResponseWriter, r *http.Request) {
	var req provisionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		httpjson.Error(w, http.StatusBadRequest, "validation_error", "product_id is required")
		return
	}
	e, err := h.service.Provision(r.Context(), req.ProductID, req.Remaining)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, toStockResp(e))
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	var req restockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	e, err := h.service.Restock(r.Context(), chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toStockResp(e))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toStockResp(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]stockResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStockResp(e))
	}
	httpjson.Write(w, http.StatusOK, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		httpjson.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrAlreadyStocked):
		httpjson.Error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrNegativeQuantity):
		httpjson.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		h.log.Error("stock request failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal_error", "")
	}
}
