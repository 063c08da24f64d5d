package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, env *primitives.IntegrationEventEnvelope) error
}

type Dispatcher struct {
	repo      domain.OutboxRepository
	publisher Publisher
	logger    *zap.Logger
	maxRetry  int
	batchSize int
}

func NewDispatcher(
	repo domain.OutboxRepository,
	publisher Publisher,
	logger *zap.Logger,
	maxRetry, batchSize int,
) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		maxRetry:  maxRetry,
		batchSize: batchSize,
	}
}

// DispatchOnce publishes one batch of pending messages and returns how many
// were marked processed. Failed messages get their retry count bumped.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	msgs, err := d.repo.GetPendingBatch(ctx, d.maxRetry, d.batchSize)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	processed := 0
	for i := range msgs {
		msg := &msgs[i]

		if !json.Valid([]byte(msg.PayloadJSON)) {
			d.logger.Warn("outbox payload is not valid json",
				zap.String("messageId", msg.ID.String()),
				zap.String("type", msg.Type))
			msg.RetryCount++
			d.save(ctx, msg)
			continue
		}

		envelope := primitives.NewIntegrationEventEnvelope(msg.Type, msg.PayloadJSON)
		envelope.SetRoutingKey(msg.Type)

		if err := d.publisher.Publish(ctx, &envelope); err != nil {
			d.logger.Warn("outbox publish failed",
				zap.String("messageId", msg.ID.String()),
				zap.String("type", msg.Type),
				zap.Int("retryCount", msg.RetryCount),
				zap.Error(err))
			msg.RetryCount++
		} else {
			now := time.Now().UTC().Unix()
			msg.ProcessedAtUtc = &now
			processed++
		}

		d.save(ctx, msg)
	}

	return processed, nil
}

func (d *Dispatcher) save(ctx context.Context, msg *domain.OutboxMessage) {
	if err := d.repo.Save(ctx, *msg); err != nil {
		d.logger.Error("outbox save failed",
			zap.String("messageId", msg.ID.String()),
			zap.Error(err))
	}
}
