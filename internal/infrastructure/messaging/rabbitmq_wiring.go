package messaging

import (
	"context"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	messaging "github.com/rodolfodevapp/eventshop-messaging-go/rabbitmq"
)

const (
	ExchangeName = "cardshop.events"
	queuePrefix  = "cardshop.dispatcher.v1"
)

// Publisher sends outbox envelopes to the cardshop.events exchange.
type Publisher struct {
	bus *messaging.RabbitMqEventBus
}

func NewPublisher(rabbitUri string) *Publisher {
	opts := messaging.RabbitMqOptions{
		URI:          rabbitUri,
		ExchangeName: ExchangeName,
		QueuePrefix:  queuePrefix,
		Prefetch:     32,
		RetryDelayMs: 30000,
	}
	return &Publisher{bus: messaging.NewRabbitMqEventBus(opts, nil, nil)}
}

func (p *Publisher) Publish(ctx context.Context, env *primitives.IntegrationEventEnvelope) error {
	return p.bus.Publish(ctx, env)
}
