package outbox

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/rmehta2304/warehouse-order-system/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type feedEvent struct {
	ID          int64  `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

func (d *Dispatcher) Dispatch(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(feedEvent{
		ID:          e.ID,
		Action:      e.Action,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return err
	}

	headers := []kafka.Header{{Key: "action", Value: []byte(e.Action)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(e.Action),
		Value:   payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("activity dispatch failed", "entry_id", e.ID, "err", err)
		return err
	}
	d.log.Debug("activity dispatched", "entry_id", e.ID, "action", e.Action)
	return nil
}
