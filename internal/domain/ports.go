package domain

import (
	"context"

	"github.com/google/uuid"
)

type InventoryRepository interface {
	Search(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error)
	// Insert stores item and fills in ID and CreatedAt.
	Insert(ctx context.Context, item *InventoryItem) error
}

type OrderRepository interface {
	// List returns every order, newest first.
	List(ctx context.Context) ([]Order, error)
	// WithinTx runs fn in one transaction; fn returning an error rolls it back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error
}

// OrderTx is the set of statements available inside an order transaction.
type OrderTx interface {
	// LockInventoryItem reads the row with an exclusive lock held until the
	// transaction ends. It returns nil, nil when the row does not exist.
	LockInventoryItem(ctx context.Context, id int64) (*InventoryItem, error)
	DecrementStock(ctx context.Context, id int64, quantity int) error
	// InsertOrder stores o and fills in ID, Status and CreatedAt.
	InsertOrder(ctx context.Context, o *Order) error
	// UpdateOrderStatus returns nil, nil when no order has id.
	UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
	EnqueueOutbox(ctx context.Context, msg OutboxMessage) error
}

type CatalogClient interface {
	Search(ctx context.Context, query string) ([]CardRecord, error)
	Collection(ctx context.Context, identifiers []CardIdentifier) ([]CardRecord, error)
}

// IdempotencyGuard remembers request keys for a while.
type IdempotencyGuard interface {
	// Claim returns false when key was already claimed.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type OutboxRepository interface {
	GetPendingBatch(ctx context.Context, maxRetry, batchSize int) ([]OutboxMessage, error)
	Save(ctx context.Context, msg OutboxMessage) error
}

type OutboxMessage struct {
	ID             uuid.UUID
	Type           string
	PayloadJSON    string
	OccurredAtUtc  int64 // unix seconds
	RetryCount     int
	ProcessedAtUtc *int64
}
