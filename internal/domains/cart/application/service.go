package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
)

// Service orchestrates the cart bounded context use cases.
type Service struct {
	repo     ports.Repository
	products ports.ProductLookup
	now      func() time.Time
	newID    func() string
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the time source used for purge cutoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides cart id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the cart service with its dependencies.
func NewService(repo ports.Repository, products ports.ProductLookup, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		products: products,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create opens an empty cart with a fresh id.
func (s *Service) Create(ctx context.Context) (*ports.CartProjection, error) {
	cart, err := domain.NewCart(s.newID())
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, cart)
}

func (s *Service) Get(ctx context.Context, cartID string) (*ports.CartProjection, error) {
	id, err := normalizeID(cartID)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// AddLine resolves productID against the catalog and adds one unit of it.
func (s *Service) AddLine(ctx context.Context, cartID, productID string) (*ports.CartProjection, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	id, err := normalizeID(cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(cart *domain.Cart) error {
		return cart.AddLine(product)
	})
}

func (s *Service) RemoveLine(ctx context.Context, cartID, productID string) (*ports.CartProjection, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		cart.RemoveLine(strings.TrimSpace(productID))
		return nil
	})
}

func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*ports.CartProjection, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		cart.SetQuantity(strings.TrimSpace(productID), quantity)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, cartID string) (*ports.CartProjection, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

// Checkout hands the cart's lines to place and empties the cart, both while
// the cart is held against other writers. When place fails the cart keeps
// its lines.
func (s *Service) Checkout(ctx context.Context, cartID string, place func([]domain.Line) error) (*ports.CartProjection, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return place(cart.TakeLines())
	})
}

func (s *Service) Total(ctx context.Context, cartID string) (decimal.Decimal, error) {
	projection, err := s.Get(ctx, cartID)
	if err != nil {
		return decimal.Zero, err
	}
	return projection.Entity.Total(), nil
}

// PurgeStale removes carts untouched for longer than olderThan.
func (s *Service) PurgeStale(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	return s.repo.PurgeStale(ctx, s.now().Add(-olderThan))
}

func (s *Service) mutate(ctx context.Context, cartID string, apply func(*domain.Cart) error) (*ports.CartProjection, error) {
	id, err := normalizeID(cartID)
	if err != nil {
		return nil, err
	}
	projection, err := s.repo.Update(ctx, id, apply)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

func normalizeID(cartID string) (string, error) {
	id := strings.TrimSpace(cartID)
	if id == "" {
		return "", mapError(domain.ErrEmptyCartID)
	}
	return id, nil
}

var _ ports.Service = (*Service)(nil)
