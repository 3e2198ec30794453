package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
)

// Service is the storefront-facing read layer. Fetch failures are logged
// and degrade to an empty catalog, which is what the pages render while
// the shop is offline. Callers that need to tell "empty" from "failed"
// use the Client directly.
type Service struct {
	client *Client
	log    *zap.Logger
}

func NewService(client *Client, log *zap.Logger) *Service {
	return &Service{client: client, log: log}
}

func (s *Service) Categories(ctx context.Context) []model.Category {
	categories, err := s.client.GetCategories(ctx)
	if err != nil {
		s.log.Warn("error fetching categories", zap.Error(err))
		return []model.Category{}
	}
	return categories
}

func (s *Service) Products(ctx context.Context) []model.Product {
	products, err := s.client.GetProducts(ctx)
	if err != nil {
		s.log.Warn("error fetching products", zap.Error(err))
		return []model.Product{}
	}
	return products
}
