package application

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

// OutboxEnqueuer is anything that can stage an outbox row, usually the open order transaction.
type OutboxEnqueuer interface {
	EnqueueOutbox(ctx context.Context, msg domain.OutboxMessage) error
}

// Enqueue serializes ev and stages it on w.
func Enqueue(ctx context.Context, w OutboxEnqueuer, ev primitives.Event) error {
	msg, err := NewOutboxMessage(ev)
	if err != nil {
		return err
	}
	return w.EnqueueOutbox(ctx, msg)
}

func NewOutboxMessage(ev primitives.Event) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return domain.OutboxMessage{}, err
	}

	eventType := ev.GetRoutingKey()
	if eventType == "" {
		eventType = typeNameOf(ev)
	}

	return domain.OutboxMessage{
		ID:            uuid.New(),
		Type:          eventType,
		PayloadJSON:   string(payload),
		OccurredAtUtc: time.Now().UTC().Unix(),
	}, nil
}

func typeNameOf(ev primitives.Event) string {
	if ev == nil {
		return ""
	}
	t := reflect.TypeOf(ev)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
