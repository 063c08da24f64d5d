package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockOutboxRepo struct {
	mu   sync.Mutex
	msgs map[uuid.UUID]domain.OutboxMessage
}

func newMockOutboxRepo(msgs ...domain.OutboxMessage) *mockOutboxRepo {
	r := &mockOutboxRepo{msgs: make(map[uuid.UUID]domain.OutboxMessage)}
	for _, m := range msgs {
		r.msgs[m.ID] = m
	}
	return r
}

func (r *mockOutboxRepo) GetPendingBatch(_ context.Context, maxRetry, batchSize int) ([]domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OutboxMessage
	for _, m := range r.msgs {
		if m.ProcessedAtUtc == nil && m.RetryCount < maxRetry && len(out) < batchSize {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *mockOutboxRepo) Save(_ context.Context, msg domain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[msg.ID] = msg
	return nil
}

func (r *mockOutboxRepo) get(id uuid.UUID) domain.OutboxMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs[id]
}

type mockPublisher struct {
	mu    sync.Mutex
	sent  []string
	keys  []string
	fail  error
	count int
}

func (p *mockPublisher) Publish(_ context.Context, env *primitives.IntegrationEventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, env.PayloadJSON)
	p.keys = append(p.keys, env.GetRoutingKey())
	return nil
}

func (p *mockPublisher) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func message(typ, payload string) domain.OutboxMessage {
	return domain.OutboxMessage{ID: uuid.New(), Type: typ, PayloadJSON: payload, OccurredAtUtc: time.Now().Unix()}
}

func TestDispatchOnce_PublishesAndMarksProcessed(t *testing.T) {
	msg := message("OrderPlaced", `{"orderId":1}`)
	repo := newMockOutboxRepo(msg)
	pub := &mockPublisher{}
	d := NewDispatcher(repo, pub, zaptest.NewLogger(t), 5, 10)

	n, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{`{"orderId":1}`}, pub.sent)
	assert.Equal(t, []string{"OrderPlaced"}, pub.keys)
	assert.NotNil(t, repo.get(msg.ID).ProcessedAtUtc)

	n, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDispatchOnce_FailureBumpsRetry(t *testing.T) {
	msg := message("OrderStatusChanged", `{"orderId":2}`)
	repo := newMockOutboxRepo(msg)
	pub := &mockPublisher{fail: errors.New("channel closed")}
	d := NewDispatcher(repo, pub, zaptest.NewLogger(t), 2, 10)

	for i := 0; i < 3; i++ {
		n, err := d.DispatchOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	saved := repo.get(msg.ID)
	assert.Equal(t, 2, saved.RetryCount)
	assert.Nil(t, saved.ProcessedAtUtc)
	assert.Equal(t, 2, pub.calls(), "gives up after maxRetry")
}

func TestDispatchOnce_InvalidPayloadSkipsPublish(t *testing.T) {
	msg := message("OrderPlaced", `{broken`)
	repo := newMockOutboxRepo(msg)
	pub := &mockPublisher{}
	d := NewDispatcher(repo, pub, zaptest.NewLogger(t), 5, 10)

	_, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pub.calls())
	assert.Equal(t, 1, repo.get(msg.ID).RetryCount)
}

func TestScheduler_StopsWithContext(t *testing.T) {
	msg := message("OrderPlaced", `{"orderId":3}`)
	repo := newMockOutboxRepo(msg)
	pub := &mockPublisher{}
	d := NewDispatcher(repo, pub, zaptest.NewLogger(t), 5, 10)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(d, 10*time.Millisecond, zaptest.NewLogger(t))
	s.Start(ctx)

	assert.Eventually(t, func() bool { return repo.get(msg.ID).ProcessedAtUtc != nil }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}
