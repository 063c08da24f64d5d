package domain

import (
	"time"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	"github.com/shopspring/decimal"
)

// Outgoing events, written to the outbox in the same transaction as the change.

type OrderPlacedEvent struct {
	primitives.BaseEvent
	OrderID      int64           `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Lines        []OrderLine     `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	PlacedAtUtc  time.Time       `json:"placedAtUtc"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	ev := &OrderPlacedEvent{
		BaseEvent:    primitives.NewBaseEvent(),
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Lines:        o.Items,
		Total:        o.Total,
		PlacedAtUtc:  o.CreatedAt.UTC(),
	}
	ev.SetRoutingKey("OrderPlaced")
	return ev
}

type OrderStatusChangedEvent struct {
	primitives.BaseEvent
	OrderID      int64       `json:"orderId"`
	Status       OrderStatus `json:"status"`
	ChangedAtUtc time.Time   `json:"changedAtUtc"`
}

func NewOrderStatusChangedEvent(orderID int64, status OrderStatus) *OrderStatusChangedEvent {
	ev := &OrderStatusChangedEvent{
		BaseEvent:    primitives.NewBaseEvent(),
		OrderID:      orderID,
		Status:       status,
		ChangedAtUtc: time.Now().UTC(),
	}
	ev.SetRoutingKey("OrderStatusChanged")
	return ev
}
