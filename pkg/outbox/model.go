// Package outbox relays committed activity entries to the Kafka activity
// feed. Entries are written transactionally by the domain services and
// picked up here with a leased batch lock, so each entry is published at
// least once and never before its transaction committed.
package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

type Entry struct {
	ID          int64
	Action      string
	Description string
	CreatedAt   time.Time
	Status      Status
	RetryCount  int
	LastError   *string
}
