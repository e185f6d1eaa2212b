package application

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
)

// maxNumberAttempts bounds the order-number reservation loop. Exhausting it
// fails the whole placement; the caller retries the call, not the number.
const maxNumberAttempts = 5

type PlaceOrderCommand struct {
	ProductID  string
	CustomerID string
	Quantity   int
	TotalCents int64
}

func (c PlaceOrderCommand) validate() error {
	if c.ProductID == "" {
		return domain.ErrMissingProductID
	}
	if c.CustomerID == "" {
		return domain.ErrMissingCustomerID
	}
	if c.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if c.TotalCents < 0 {
		return domain.ErrInvalidTotalPrice
	}
	return nil
}

type Service struct {
	log    *slog.Logger
	tx     TxRunner
	reader OrderReader
	gen    func() string
	tracer trace.Tracer
}

func NewService(log *slog.Logger, tx TxRunner, reader OrderReader) *Service {
	return &Service{
		log:    log,
		tx:     tx,
		reader: reader,
		gen:    domain.NewOrderNumber,
		tracer: otel.Tracer("order-service"),
	}
}

// PlaceOrder decrements stock, reserves a unique order number, records the
// order and appends activity entries, all in one transaction. On any error
// nothing is committed.
func (s *Service) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (domain.Order, error) {
	if err := cmd.validate(); err != nil {
		return domain.Order{}, err
	}

	ctx, span := s.tracer.Start(ctx, "PlaceOrder",
		trace.WithAttributes(attribute.String("product_id", cmd.ProductID)))
	defer span.End()

	var placed domain.Order
	err := s.tx.InTx(ctx, func(ctx context.Context, led Ledgers) error {
		stock, err := led.Stock.Get(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if stock.Remaining < cmd.Quantity {
			return &domain.InsufficientStockError{
				ProductID: cmd.ProductID,
				Remaining: stock.Remaining,
				Requested: cmd.Quantity,
			}
		}

		newRemaining := stock.Remaining - cmd.Quantity
		newStatus := inventory.DeriveStatus(newRemaining)
		if err := led.Stock.Update(ctx, cmd.ProductID, newRemaining, newStatus); err != nil {
			return err
		}

		number, err := s.reserveNumber(ctx, led.Orders)
		if err != nil {
			return err
		}

		productName, err := led.Catalog.ProductName(ctx, cmd.ProductID)
		if err != nil {
			return err
		}

		placed = domain.NewOrder(number, cmd.ProductID, cmd.CustomerID, cmd.Quantity, cmd.TotalCents)
		if err := led.Orders.Create(ctx, placed); err != nil {
			return err
		}

		desc := fmt.Sprintf("New Order #%s - %s (%d items)", number, productName, cmd.Quantity)
		if err := led.Activity.Append(ctx, activity.ActionOrderCreated, desc); err != nil {
			return err
		}

		if newStatus == inventory.StatusLow || newStatus == inventory.StatusOut {
			action := activity.ActionInventoryLow
			state := "running low"
			if newStatus == inventory.StatusOut {
				action = activity.ActionInventoryOut
				state = "Out of Stock"
			}
			alert := fmt.Sprintf("Inventory Alert: %s is %s", productName, state)
			if err := led.Activity.Append(ctx, action, alert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.Order{}, err
	}

	s.log.Info("order placed",
		"order_number", placed.OrderNumber,
		"product_id", placed.ProductID,
		"quantity", placed.Quantity,
	)
	return placed, nil
}

// reserveNumber draws candidates until one is unused, up to
// maxNumberAttempts. The check runs inside the placement transaction; the
// unique constraint on the orders table remains the backstop for candidates
// that race past it.
func (s *Service) reserveNumber(ctx context.Context, orders OrderLedger) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := s.gen()
		exists, err := orders.NumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.ErrOrderNumberExhausted
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.reader.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.reader.List(ctx, limit)
}
