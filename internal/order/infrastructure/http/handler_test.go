package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/metrics"
	"github.com/rmehta2304/warehouse-order-system/internal/order/application"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
	"github.com/rmehta2304/warehouse-order-system/pkg/idempotency"
)

// stubTx backs the engine with a single product so handler status mapping
// can be exercised end to end without a database.
type stubTx struct {
	remaining int
	hasStock  bool
	orders    map[string]domain.Order
}

type stubLedgers struct{ tx *stubTx }

func (s *stubLedgers) Get(context.Context, string) (inventory.StockEntry, error) {
	if !s.tx.hasStock {
		return inventory.StockEntry{}, inventory.ErrStockNotFound
	}
	return inventory.StockEntry{ProductID: "p1", Remaining: s.tx.remaining, Status: inventory.DeriveStatus(s.tx.remaining)}, nil
}

func (s *stubLedgers) Update(_ context.Context, _ string, remaining int, _ inventory.Status) error {
	s.tx.remaining = remaining
	return nil
}

func (s *stubLedgers) NumberExists(_ context.Context, n string) (bool, error) {
	_, ok := s.tx.orders[n]
	return ok, nil
}

func (s *stubLedgers) Create(_ context.Context, o domain.Order) error {
	s.tx.orders[o.OrderNumber] = o
	return nil
}

func (s *stubLedgers) Append(context.Context, activity.Action, string) error { return nil }

func (s *stubLedgers) ProductName(context.Context, string) (string, error) { return "Steel Bolt", nil }

func (t *stubTx) InTx(ctx context.Context, fn func(ctx context.Context, led application.Ledgers) error) error {
	led := &stubLedgers{tx: t}
	return fn(ctx, application.Ledgers{Stock: led, Orders: led, Activity: led, Catalog: led})
}

func newTestHandler(tx *stubTx) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(log, tx, nil)
	return NewHandler(log, svc, metrics.NewRegistry())
}

func postOrder(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderHTTPCreated(t *testing.T) {
	tx := &stubTx{remaining: 15, hasStock: true, orders: map[string]domain.Order{}}
	h := newTestHandler(tx)

	rec := postOrder(t, h, `{"product_id":"p1","customer_id":"c1","quantity":5,"total_cents":2500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
	var resp orderResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderNumber == "" || resp.Quantity != 5 || resp.TotalCents != 2500 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if tx.remaining != 10 {
		t.Fatalf("remaining = %d, want 10", tx.remaining)
	}
}

func TestPlaceOrderHTTPInsufficientStock(t *testing.T) {
	tx := &stubTx{remaining: 3, hasStock: true, orders: map[string]domain.Order{}}
	h := newTestHandler(tx)

	rec := postOrder(t, h, `{"product_id":"p1","customer_id":"c1","quantity":10,"total_cents":100}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}
	var resp insufficientStockResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Remaining != 3 {
		t.Fatalf("remaining in error = %d, want 3", resp.Remaining)
	}
	if tx.remaining != 3 {
		t.Fatalf("stock mutated on rejection: %d", tx.remaining)
	}
}

func TestPlaceOrderHTTPStockMissing(t *testing.T) {
	h := newTestHandler(&stubTx{hasStock: false, orders: map[string]domain.Order{}})

	rec := postOrder(t, h, `{"product_id":"ghost","customer_id":"c1","quantity":1,"total_cents":100}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

type stubReader struct{}

func (stubReader) Get(context.Context, string) (domain.Order, error) {
	return domain.Order{}, domain.ErrOrderNotFound
}

func (stubReader) List(context.Context, int) ([]domain.Order, error) { return nil, nil }

type memKeys struct{ keys map[string]bool }

func (m *memKeys) Key(method, path, clientKey string) string {
	return method + ":" + path + ":" + clientKey
}

func (m *memKeys) Seen(_ context.Context, key string) (bool, error) {
	if m.keys[key] {
		return true, nil
	}
	m.keys[key] = true
	return false, nil
}

func (m *memKeys) Release(_ context.Context, key string) error {
	delete(m.keys, key)
	return nil
}

func TestIdempotencyScopedToPlacement(t *testing.T) {
	tx := &stubTx{remaining: 30, hasStock: true, orders: map[string]domain.Order{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(log, tx, stubReader{})
	h := NewHandler(log, svc, metrics.NewRegistry())
	routes := h.Routes(idempotency.Middleware(log, &memKeys{keys: map[string]bool{}}))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, rd)
		req.Header.Set("Idempotency-Key", "k-1")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		return rec
	}

	body := `{"product_id":"p1","customer_id":"c1","quantity":1,"total_cents":100}`
	if rec := do(http.MethodPost, "/orders", body); rec.Code != http.StatusCreated {
		t.Fatalf("first placement: status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPost, "/orders", body); rec.Code != http.StatusConflict {
		t.Fatalf("replayed placement: status = %d, want 409", rec.Code)
	}
	for i := 0; i < 2; i++ {
		if rec := do(http.MethodGet, "/orders", ""); rec.Code != http.StatusOK {
			t.Fatalf("read %d with stray header: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestPlaceOrderHTTPValidation(t *testing.T) {
	h := newTestHandler(&stubTx{remaining: 5, hasStock: true, orders: map[string]domain.Order{}})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"product_id":`},
		{"zero quantity", `{"product_id":"p1","customer_id":"c1","quantity":0,"total_cents":100}`},
		{"negative total", `{"product_id":"p1","customer_id":"c1","quantity":1,"total_cents":-5}`},
		{"missing customer", `{"product_id":"p1","quantity":1,"total_cents":100}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := postOrder(t, h, tc.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
