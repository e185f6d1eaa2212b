package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
)

// fakeState is the in-memory stand-in for the three ledgers plus catalog.
type fakeState struct {
	stocks     map[string]inventory.StockEntry
	orders     map[string]domain.Order // keyed by order number
	activities []activity.Entry
	products   map[string]string // id -> display name
}

func newFakeState() *fakeState {
	return &fakeState{
		stocks:   make(map[string]inventory.StockEntry),
		orders:   make(map[string]domain.Order),
		products: make(map[string]string),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.activities = append(c.activities, s.activities...)
	return c
}

// fakeLedgers implements every engine port against a staged fakeState.
type fakeLedgers struct {
	st        *fakeState
	appendErr error
	createErr error
}

func (f *fakeLedgers) Get(_ context.Context, productID string) (inventory.StockEntry, error) {
	e, ok := f.st.stocks[productID]
	if !ok {
		return inventory.StockEntry{}, inventory.ErrStockNotFound
	}
	return e, nil
}

func (f *fakeLedgers) Update(_ context.Context, productID string, remaining int, status inventory.Status) error {
	e, ok := f.st.stocks[productID]
	if !ok {
		return inventory.ErrStockNotFound
	}
	e.Remaining = remaining
	e.Status = status
	f.st.stocks[productID] = e
	return nil
}

func (f *fakeLedgers) NumberExists(_ context.Context, orderNumber string) (bool, error) {
	_, ok := f.st.orders[orderNumber]
	return ok, nil
}

func (f *fakeLedgers) Create(_ context.Context, o domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.st.orders[o.OrderNumber]; ok {
		return domain.ErrDuplicateOrderNumber
	}
	f.st.orders[o.OrderNumber] = o
	return nil
}

func (f *fakeLedgers) Append(_ context.Context, action activity.Action, description string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.st.activities = append(f.st.activities, activity.Entry{Action: action, Description: description})
	return nil
}

func (f *fakeLedgers) ProductName(_ context.Context, productID string) (string, error) {
	name, ok := f.st.products[productID]
	if !ok {
		return "", errors.New("product missing from catalog")
	}
	return name, nil
}

// fakeTx commits staged state only when the callback succeeds, mirroring the
// all-or-nothing contract of the real store.
type fakeTx struct {
	state     *fakeState
	appendErr error
	createErr error
}

func (f *fakeTx) InTx(_ context.Context, fn func(ctx context.Context, led Ledgers) error) error {
	staged := f.state.clone()
	led := &fakeLedgers{st: staged, appendErr: f.appendErr, createErr: f.createErr}
	if err := fn(context.Background(), Ledgers{Stock: led, Orders: led, Activity: led, Catalog: led}); err != nil {
		return err
	}
	*f.state = *staged
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(tx TxRunner) *Service {
	return NewService(discardLogger(), tx, nil)
}

func seedState(remaining int) *fakeState {
	st := newFakeState()
	st.products["p1"] = "Steel Bolt"
	st.stocks["p1"] = inventory.StockEntry{ID: "s1", ProductID: "p1", Remaining: remaining, Status: inventory.DeriveStatus(remaining)}
	return st
}

func place(t *testing.T, svc *Service, quantity int) (domain.Order, error) {
	t.Helper()
	return svc.PlaceOrder(context.Background(), PlaceOrderCommand{
		ProductID:  "p1",
		CustomerID: "c1",
		Quantity:   quantity,
		TotalCents: 2500,
	})
}

func TestPlaceOrderHappyPath(t *testing.T) {
	st := seedState(15)
	svc := newTestService(&fakeTx{state: st})

	o, err := place(t, svc, 5)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.OrderNumber == "" || o.ID == "" {
		t.Fatalf("order missing identity: %+v", o)
	}
	if got := st.stocks["p1"]; got.Remaining != 10 || got.Status != inventory.StatusOK {
		t.Fatalf("stock after placement = %d/%s, want 10/OK", got.Remaining, got.Status)
	}
	if len(st.activities) != 1 {
		t.Fatalf("expected exactly 1 activity entry, got %d", len(st.activities))
	}
	if st.activities[0].Action != activity.ActionOrderCreated {
		t.Fatalf("activity action = %s, want ORDER_CREATED", st.activities[0].Action)
	}
}

func TestPlaceOrderDrainsToOut(t *testing.T) {
	st := seedState(5)
	svc := newTestService(&fakeTx{state: st})

	if _, err := place(t, svc, 5); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if got := st.stocks["p1"]; got.Remaining != 0 || got.Status != inventory.StatusOut {
		t.Fatalf("stock after placement = %d/%s, want 0/OUT", got.Remaining, got.Status)
	}
	if len(st.activities) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(st.activities))
	}
	if st.activities[1].Action != activity.ActionInventoryOut {
		t.Fatalf("alert action = %s, want INVENTORY_OUT", st.activities[1].Action)
	}
	if want := "Inventory Alert: Steel Bolt is Out of Stock"; st.activities[1].Description != want {
		t.Fatalf("alert description = %q, want %q", st.activities[1].Description, want)
	}
}

func TestPlaceOrderDropsToLow(t *testing.T) {
	st := seedState(8)
	svc := newTestService(&fakeTx{state: st})

	if _, err := place(t, svc, 3); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if got := st.stocks["p1"]; got.Remaining != 5 || got.Status != inventory.StatusLow {
		t.Fatalf("stock after placement = %d/%s, want 5/LOW", got.Remaining, got.Status)
	}
	if len(st.activities) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(st.activities))
	}
	if st.activities[1].Action != activity.ActionInventoryLow {
		t.Fatalf("alert action = %s, want INVENTORY_LOW", st.activities[1].Action)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	st := seedState(3)
	svc := newTestService(&fakeTx{state: st})

	_, err := place(t, svc, 10)
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Remaining != 3 {
		t.Fatalf("error remaining = %d, want 3", insufficient.Remaining)
	}
	if got := st.stocks["p1"]; got.Remaining != 3 {
		t.Fatalf("stock mutated on failure: remaining = %d, want 3", got.Remaining)
	}
	if len(st.orders) != 0 || len(st.activities) != 0 {
		t.Fatalf("failure left side effects: %d orders, %d activities", len(st.orders), len(st.activities))
	}
}

func TestPlaceOrderStockRecordMissing(t *testing.T) {
	st := newFakeState()
	st.products["p1"] = "Steel Bolt"
	svc := newTestService(&fakeTx{state: st})

	_, err := place(t, svc, 1)
	if !errors.Is(err, inventory.ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
	if len(st.orders) != 0 || len(st.activities) != 0 {
		t.Fatalf("failure left side effects behind")
	}
}

func TestPlaceOrderNumberExhausted(t *testing.T) {
	st := seedState(20)
	taken := []string{"AA10000", "BB10001", "CC10002", "DD10003", "EE10004"}
	for _, n := range taken {
		st.orders[n] = domain.Order{OrderNumber: n}
	}
	svc := newTestService(&fakeTx{state: st})
	i := 0
	svc.gen = func() string {
		n := taken[i%len(taken)]
		i++
		return n
	}

	_, err := place(t, svc, 5)
	if !errors.Is(err, domain.ErrOrderNumberExhausted) {
		t.Fatalf("expected ErrOrderNumberExhausted, got %v", err)
	}
	if i != 5 {
		t.Fatalf("generator invoked %d times, want 5", i)
	}
	if got := st.stocks["p1"]; got.Remaining != 20 {
		t.Fatalf("stock decrement not rolled back: remaining = %d, want 20", got.Remaining)
	}
	if len(st.activities) != 0 {
		t.Fatalf("activities written despite rollback")
	}
}

func TestPlaceOrderRetriesPastCollision(t *testing.T) {
	st := seedState(20)
	st.orders["ZZ99999"] = domain.Order{OrderNumber: "ZZ99999"}
	svc := newTestService(&fakeTx{state: st})
	candidates := []string{"ZZ99999", "ZZ99999", "AB12345"}
	i := 0
	svc.gen = func() string {
		n := candidates[i]
		i++
		return n
	}

	o, err := place(t, svc, 5)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.OrderNumber != "AB12345" {
		t.Fatalf("order number = %s, want AB12345", o.OrderNumber)
	}
}

func TestPlaceOrderActivityFailureRollsBack(t *testing.T) {
	st := seedState(15)
	svc := newTestService(&fakeTx{state: st, appendErr: errors.New("log write refused")})

	_, err := place(t, svc, 5)
	if err == nil {
		t.Fatal("expected error from activity append")
	}
	if got := st.stocks["p1"]; got.Remaining != 15 {
		t.Fatalf("stock decrement survived rollback: remaining = %d, want 15", got.Remaining)
	}
	if len(st.orders) != 0 {
		t.Fatalf("order survived rollback")
	}
}

func TestPlaceOrderDuplicateConstraintBackstop(t *testing.T) {
	st := seedState(15)
	svc := newTestService(&fakeTx{state: st, createErr: domain.ErrDuplicateOrderNumber})

	_, err := place(t, svc, 5)
	if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
		t.Fatalf("expected ErrDuplicateOrderNumber, got %v", err)
	}
	if got := st.stocks["p1"]; got.Remaining != 15 {
		t.Fatalf("stock decrement survived rollback: remaining = %d, want 15", got.Remaining)
	}
}

func TestPlaceOrderNumbersPairwiseDistinct(t *testing.T) {
	st := seedState(1000)
	svc := newTestService(&fakeTx{state: st})

	for i := 0; i < 50; i++ {
		if _, err := place(t, svc, 1); err != nil {
			t.Fatalf("placement %d: %v", i, err)
		}
	}
	if len(st.orders) != 50 {
		t.Fatalf("expected 50 committed orders with distinct numbers, got %d", len(st.orders))
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc := newTestService(&fakeTx{state: seedState(10)})
	cases := []struct {
		name string
		cmd  PlaceOrderCommand
		want error
	}{
		{"missing product", PlaceOrderCommand{CustomerID: "c1", Quantity: 1}, domain.ErrMissingProductID},
		{"missing customer", PlaceOrderCommand{ProductID: "p1", Quantity: 1}, domain.ErrMissingCustomerID},
		{"zero quantity", PlaceOrderCommand{ProductID: "p1", CustomerID: "c1", Quantity: 0}, domain.ErrInvalidQuantity},
		{"negative total", PlaceOrderCommand{ProductID: "p1", CustomerID: "c1", Quantity: 1, TotalCents: -1}, domain.ErrInvalidTotalPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.PlaceOrder(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
