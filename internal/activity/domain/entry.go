package domain

import "time"

type Action string

const (
	ActionOrderCreated     Action = "ORDER_CREATED"
	ActionInventoryLow     Action = "INVENTORY_LOW"
	ActionInventoryOut     Action = "INVENTORY_OUT"
	ActionProductCreated   Action = "PRODUCT_CREATED"
	ActionStockProvisioned Action = "STOCK_PROVISIONED"
	ActionStockRestocked   Action = "STOCK_RESTOCKED"
)

// Entry is one append-only audit record. Entries are written inside the
// transaction that caused them and relayed to the activity feed afterwards.
type Entry struct {
	ID          int64
	Action      Action
	Description string
	CreatedAt   time.Time
}
