package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rmehta2304/warehouse-order-system/internal/catalog/application"
	"github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
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
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)

	r.Post("/customers", h.createCustomer)
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{id}", h.getCustomer)
	r.Patch("/customers/{id}", h.updateCustomer)
	r.Delete("/customers/{id}", h.deleteCustomer)
	return r
}

type productReq struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type productResp struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toProductResp(p domain.Product) productResp {
	return productResp{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
	}
}

type customerReq struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type customerResp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	CreatedAt string `json:"created_at"`
}

func toCustomerResp(c domain.Customer) customerResp {
	return customerResp{
		ID:        c.ID,
		Name:      c.Name,
		Region:    string(c.Region),
		CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req.Code, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, toProductResp(p))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toProductResp(p))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	httpjson.Write(w, http.StatusOK, out)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.Code, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toProductResp(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	region, err := domain.ParseRegion(req.Region)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	c, err := h.service.CreateCustomer(r.Context(), req.Name, region)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, toCustomerResp(c))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toCustomerResp(c))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]customerResp, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResp(c))
	}
	httpjson.Write(w, http.StatusOK, out)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	var region domain.Region
	if req.Region != "" {
		var err error
		region, err = domain.ParseRegion(req.Region)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
	}
	c, err := h.service.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.Name, region)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toCustomerResp(c))
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		httpjson.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateProductCode),
		errors.Is(err, domain.ErrDuplicateCustomerName):
		httpjson.Error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, application.ErrMissingProductCode),
		errors.Is(err, application.ErrMissingProductName),
		errors.Is(err, application.ErrMissingCustomerName),
		errors.Is(err, domain.ErrUnknownRegion):
		httpjson.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		h.log.Error("catalog request failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal_error", "")
	}
}
