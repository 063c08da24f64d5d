package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

type OrderService struct {
	repo   domain.OrderRepository
	guard  domain.IdempotencyGuard
	logger *zap.Logger
}

// NewOrderService builds the service. guard may be nil, which disables
// Idempotency-Key handling.
func NewOrderService(
	repo domain.OrderRepository,
	guard domain.IdempotencyGuard,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{repo: repo, guard: guard, logger: logger}
}

// PlaceOrder checks and decrements stock for every line, stores the order and
// its OrderPlaced event, all in one transaction. Rows are locked in ascending
// id order; the stored items keep the caller's order.
func (s *OrderService) PlaceOrder(ctx context.Context, cmd domain.PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	claimed, err := s.claim(ctx, cmd.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if err := reserveLines(ctx, tx, cmd.Items); err != nil {
			return err
		}

		order = &domain.Order{
			CustomerName: cmd.CustomerName,
			ContactInfo:  cmd.ContactInfo,
			Items:        cmd.Items,
			Total:        *cmd.Total,
			Status:       domain.OrderPending,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return Enqueue(ctx, tx, domain.NewOrderPlacedEvent(order))
	})
	if err != nil {
		if claimed {
			s.release(ctx, cmd.IdempotencyKey)
		}
		return nil, s.classify("place order", err)
	}

	s.logger.Info("order placed",
		zap.Int64("orderId", order.ID),
		zap.String("customer", order.CustomerName),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.String()))
	return order, nil
}

// reserveLines locks each referenced row once and checks every line against
// the stock left after the lines before it.
func reserveLines(ctx context.Context, tx domain.OrderTx, lines []domain.OrderLine) error {
	type locked struct {
		name      string
		remaining int
	}
	rows := make(map[int64]*locked, len(lines))

	for _, i := range domain.LockOrder(lines) {
		line := lines[i]
		row, ok := rows[line.ID]
		if !ok {
			item, err := tx.LockInventoryItem(ctx, line.ID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.NotFound(fmt.Sprintf("%s no longer exists", lineName(line)))
			}
			row = &locked{name: item.CardName, remaining: item.Stock}
			rows[line.ID] = row
		}

		if row.remaining < line.Quantity {
			return &domain.InsufficientStockError{
				CardName:  row.name,
				Available: row.remaining,
				Requested: line.Quantity,
			}
		}
		if err := tx.DecrementStock(ctx, line.ID, line.Quantity); err != nil {
			return err
		}
		row.remaining -= line.Quantity
	}
	return nil
}

func lineName(l domain.OrderLine) string {
	if l.CardName != "" {
		return l.CardName
	}
	return fmt.Sprintf("item %d", l.ID)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list orders failed", zap.Error(err))
		return nil, domain.Store("could not load orders", err)
	}
	return orders, nil
}

// UpdateStatus sets any valid status on an existing order and records an
// OrderStatusChanged event with it.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		o, err := tx.UpdateOrderStatus(ctx, id, st)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NotFound("order not found")
		}
		updated = o
		return Enqueue(ctx, tx, domain.NewOrderStatusChangedEvent(o.ID, o.Status))
	})
	if err != nil {
		return nil, s.classify("update order status", err)
	}

	s.logger.Info("order status updated",
		zap.Int64("orderId", updated.ID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}

func (s *OrderService) claim(ctx context.Context, key string) (bool, error) {
	if s.guard == nil || key == "" {
		return false, nil
	}
	ok, err := s.guard.Claim(ctx, key)
	if err != nil {
		// fail open
		s.logger.Warn("idempotency claim failed, continuing without it",
			zap.String("idempotencyKey", key),
			zap.Error(err))
		return false, nil
	}
	if !ok {
		s.logger.Info("duplicate order request", zap.String("idempotencyKey", key))
		return false, domain.Conflict("duplicate request", domain.ErrDuplicateRequest)
	}
	return true, nil
}

func (s *OrderService) release(ctx context.Context, key string) {
	if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("idempotency release failed",
			zap.String("idempotencyKey", key),
			zap.Error(err))
	}
}

// classify logs err and turns unclassified failures into a store error with a
// generic message.
func (s *OrderService) classify(op string, err error) error {
	var de *domain.Error
	var se *domain.InsufficientStockError
	switch {
	case errors.As(err, &se), errors.As(err, &de) && de.Kind != domain.KindStore:
		s.logger.Info(op+" rejected", zap.Error(err))
		return err
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		if de != nil {
			return err
		}
		return domain.Store("database error", err)
	}
}
