package application

import (
	"context"
	"strings"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
)

// Service serves the restaurant menu.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter domain.Filter) ([]*domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

var _ ports.Service = (*Service)(nil)
