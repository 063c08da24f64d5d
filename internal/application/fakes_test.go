package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

// matchesFilter mirrors the listing WHERE clause.
func matchesFilter(f domain.InventoryFilter, item domain.InventoryItem) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(item.CardName), strings.ToLower(f.Query)) {
		return false
	}
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.Category != "" && (item.Category == nil || *item.Category != f.Category) {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	return true
}

// memStore is an in-memory order store with per-row locks held until the
// transaction ends and writes staged until commit.
type memStore struct {
	mu       sync.Mutex
	items    map[int64]domain.InventoryItem
	orders   []domain.Order
	outbox   []domain.OutboxMessage
	rowLocks map[int64]*sync.Mutex
	nextID   int64

	openTx     int
	txCount    int
	failInsert error
	failSearch error
}

func newMemStore(items ...domain.InventoryItem) *memStore {
	s := &memStore{
		items:    make(map[int64]domain.InventoryItem),
		rowLocks: make(map[int64]*sync.Mutex),
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) stock(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) outboxTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.outbox))
	for i, m := range s.outbox {
		out[i] = m.Type
	}
	return out
}

func (s *memStore) open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openTx
}

// InventoryRepository

func (s *memStore) Search(_ context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error) {
	if s.failSearch != nil {
		return nil, s.failSearch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InventoryItem
	for _, it := range s.items {
		if matchesFilter(f, it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) Insert(_ context.Context, item *domain.InventoryItem) error {
	if s.failInsert != nil {
		return s.failInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	item.CreatedAt = time.Now()
	s.items[item.ID] = *item
	return nil
}

// OrderRepository

func (s *memStore) List(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	for i := range s.orders {
		out[len(s.orders)-1-i] = s.orders[i]
	}
	return out, nil
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) (err error) {
	s.mu.Lock()
	s.openTx++
	s.txCount++
	s.mu.Unlock()

	tx := &memTx{
		store:    s,
		held:     make(map[int64]*sync.Mutex),
		decrease: make(map[int64]int),
		statuses: make(map[int64]domain.OrderStatus),
	}
	defer func() {
		for _, l := range tx.held {
			l.Unlock()
		}
		s.mu.Lock()
		s.openTx--
		s.mu.Unlock()
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memTx struct {
	store    *memStore
	held     map[int64]*sync.Mutex
	decrease map[int64]int
	orders   []domain.Order
	statuses map[int64]domain.OrderStatus
	outbox   []domain.OutboxMessage
}

func (t *memTx) LockInventoryItem(_ context.Context, id int64) (*domain.InventoryItem, error) {
	s := t.store
	if _, ok := t.held[id]; !ok {
		s.mu.Lock()
		l, ok := s.rowLocks[id]
		if !ok {
			l = &sync.Mutex{}
			s.rowLocks[id] = l
		}
		s.mu.Unlock()
		l.Lock()
		t.held[id] = l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	it.Stock -= t.decrease[id]
	return &it, nil
}

func (t *memTx) DecrementStock(_ context.Context, id int64, quantity int) error {
	if _, ok := t.held[id]; !ok {
		return errors.New("decrement without lock")
	}
	t.decrease[id] += quantity
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o *domain.Order) error {
	if err := t.store.failInsert; err != nil {
		return err
	}
	t.store.mu.Lock()
	t.store.nextID++
	o.ID = t.store.nextID
	t.store.mu.Unlock()
	o.Status = domain.OrderPending
	o.CreatedAt = time.Now()
	t.orders = append(t.orders, *o)
	return nil
}

func (t *memTx) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			o.Status = status
			t.statuses[id] = status
			return &o, nil
		}
	}
	return nil, nil
}

func (t *memTx) EnqueueOutbox(_ context.Context, msg domain.OutboxMessage) error {
	t.outbox = append(t.outbox, msg)
	return nil
}

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range t.decrease {
		it := s.items[id]
		it.Stock -= q
		s.items[id] = it
	}
	s.orders = append(s.orders, t.orders...)
	for i := range s.orders {
		if st, ok := t.statuses[s.orders[i].ID]; ok {
			s.orders[i].Status = st
		}
	}
	s.outbox = append(s.outbox, t.outbox...)
}

type memGuard struct {
	mu       sync.Mutex
	keys     map[string]bool
	claimErr error
}

func newMemGuard() *memGuard { return &memGuard{keys: make(map[string]bool)} }

func (g *memGuard) Claim(_ context.Context, key string) (bool, error) {
	if g.claimErr != nil {
		return false, g.claimErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	return nil
}

func (g *memGuard) has(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keys[key]
}

type stubCatalog struct {
	searchFn     func(q string) ([]domain.CardRecord, error)
	collectionFn func(ids []domain.CardIdentifier) ([]domain.CardRecord, error)
	calls        int
}

func (c *stubCatalog) Search(_ context.Context, q string) ([]domain.CardRecord, error) {
	c.calls++
	return c.searchFn(q)
}

func (c *stubCatalog) Collection(_ context.Context, ids []domain.CardIdentifier) ([]domain.CardRecord, error) {
	c.calls++
	return c.collectionFn(ids)
}
