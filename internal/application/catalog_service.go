package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

// CatalogService validates lookups before they reach the remote catalog.
type CatalogService struct {
	client domain.CatalogClient
	logger *zap.Logger
}

func NewCatalogService(client domain.CatalogClient, logger *zap.Logger) *CatalogService {
	return &CatalogService{client: client, logger: logger}
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.CardRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.InvalidRequest("q is required")
	}
	cards, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.Error("catalog search failed", zap.String("q", query), zap.Error(err))
		return nil, upstream(err)
	}
	return cards, nil
}

func (s *CatalogService) Collection(ctx context.Context, identifiers []domain.CardIdentifier) ([]domain.CardRecord, error) {
	if len(identifiers) == 0 {
		return nil, domain.InvalidRequest("identifiers must be a non-empty list")
	}
	for i, id := range identifiers {
		if !id.Valid() {
			return nil, domain.InvalidRequest(fmt.Sprintf(
				"identifiers[%d] needs a catalog id, a name, or a set and collector_number", i))
		}
	}
	cards, err := s.client.Collection(ctx, identifiers)
	if err != nil {
		s.logger.Error("catalog collection failed",
			zap.Int("identifiers", len(identifiers)),
			zap.Error(err))
		return nil, upstream(err)
	}
	return cards, nil
}

func upstream(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Upstream("catalog unavailable", err)
}
