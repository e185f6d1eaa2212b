package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalog "github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/metrics"
	"github.com/rmehta2304/warehouse-order-system/internal/order/application"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
	"github.com/rmehta2304/warehouse-order-system/pkg/httpjson"
)

const defaultListLimit = 100

type Handler struct {
	log     *slog.Logger
	service *application.Service
	met     *metrics.Registry
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, met *metrics.Registry) *Handler {
	return &Handler{
		log:     log,
		service: service,
		met:     met,
		tracer:  otel.Tracer("order-http"),
	}
}

// Routes mounts the order endpoints. Middlewares apply to placement
// only; reads are side-effect free and take none.
func (h *Handler) Routes(placeMW ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.With(placeMW...).Post("/orders", h.placeOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	return r
}

type placeOrderReq struct {
	ProductID  string `json:"product_id"`
	CustomerID string `json:"customer_id"`
	Quantity   int    `json:"quantity"`
	TotalCents int64  `json:"total_cents"`
}

type orderResp struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	ProductID   string `json:"product_id"`
	CustomerID  string `json:"customer_id"`
	Quantity    int    `json:"quantity"`
	TotalCents  int64  `json:"total_cents"`
	CreatedAt   string `json:"created_at"`
}

type insufficientStockResp struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	Remaining int    `json:"remaining"`
}

func toOrderResp(o domain.Order) orderResp {
	return orderResp{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ProductID:   o.ProductID,
		CustomerID:  o.CustomerID,
		Quantity:    o.Quantity,
		TotalCents:  o.TotalCents,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrderHTTP")
	defer span.End()

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	start := time.Now()
	placed, err := h.service.PlaceOrder(ctx, application.PlaceOrderCommand{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		TotalCents: req.TotalCents,
	})
	h.met.PlacementSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		h.writePlacementError(w, err)
		return
	}

	h.met.OrdersPlaced.Inc()
	httpjson.Write(w, http.StatusCreated, toOrderResp(placed))
}

func (h *Handler) writePlacementError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		h.met.OrdersRejectedStock.Inc()
		httpjson.Write(w, http.StatusUnprocessableEntity, insufficientStockResp{
			Error:     "insufficient_stock",
			Details:   insufficient.Error(),
			Remaining: insufficient.Remaining,
		})
	case errors.Is(err, inventory.ErrStockNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		httpjson.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNumberExhausted),
		errors.Is(err, domain.ErrDuplicateOrderNumber):
		h.met.OrdersRejectedConflict.Inc()
		httpjson.Error(w, http.StatusConflict, "order_number_conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidTotalPrice),
		errors.Is(err, domain.ErrMissingProductID),
		errors.Is(err, domain.ErrMissingCustomerID):
		httpjson.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		h.log.Error("placement failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "transaction_failure", "order placement aborted")
	}
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrOrderNotFound) {
		httpjson.Error(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		h.log.Error("get order failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	httpjson.Write(w, http.StatusOK, toOrderResp(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpjson.Error(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = n
	}
	orders, err := h.service.ListOrders(r.Context(), limit)
	if err != nil {
		h.log.Error("list orders failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	httpjson.Write(w, http.StatusOK, out)
}
