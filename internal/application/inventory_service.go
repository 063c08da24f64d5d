package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

type InventoryService struct {
	repo   domain.InventoryRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewInventoryService(repo domain.InventoryRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger, now: time.Now}
}

// Search returns at most domain.SearchLimit rows matching every supplied filter.
func (s *InventoryService) Search(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	items, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("inventory search failed", zap.Error(err))
		return nil, domain.Store("DB Error", err)
	}
	if len(items) > domain.SearchLimit {
		items = items[:domain.SearchLimit]
	}
	return items, nil
}

func (s *InventoryService) Create(ctx context.Context, in domain.NewInventoryItemInput) (*domain.InventoryItem, error) {
	item, err := domain.NewInventoryItem(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		s.logger.Error("inventory insert failed",
			zap.String("cardName", item.CardName),
			zap.Error(err))
		return nil, domain.Store("could not save inventory item", err)
	}

	s.logger.Info("inventory item created",
		zap.Int64("id", item.ID),
		zap.String("scryfallId", item.ScryfallID),
		zap.Int("stock", item.Stock))
	return item, nil
}
