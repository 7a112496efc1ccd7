package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	checkout    ports.CartCheckout
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	now         func() time.Time
	newID       func() string
}

// Option customises the service.
type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key handling on Submit.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher emits order events after each state change.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, checkout ports.CartCheckout, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		checkout: checkout,
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

// errReplayed stops a checkout whose key already produced an order.
var errReplayed = errors.New("order already submitted under this key")

// Submit turns the cart into a new pending order and empties it. Building the
// order, claiming the idempotency key and storing the order all happen while
// the cart is held, so the cart is emptied only once the order exists.
func (s *Service) Submit(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintSubmit(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		replayed, _, err := s.replay(ctx, key, requestHash)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	fulfillment := domain.Fulfillment{
		Mode:        domain.FulfillmentMode(strings.TrimSpace(input.FulfillmentMode)),
		TableNumber: input.TableNumber,
		Address:     input.Address,
	}
	var saved *domain.Order
	err := s.checkout.Checkout(ctx, strings.TrimSpace(input.CartID), func(lines []domain.Line) error {
		id := s.newID()
		if requestHash != "" {
			replayed, reserved, err := s.replay(ctx, key, requestHash)
			if err != nil {
				return err
			}
			if replayed != nil {
				saved = replayed
				return errReplayed
			}
			if reserved != "" {
				id = reserved
			}
		}
		order, err := domain.NewOrder(id, lines, fulfillment, s.now().UTC())
		if err != nil {
			return err
		}
		if requestHash != "" {
			if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
				Key:         key,
				RequestHash: requestHash,
				OrderID:     order.ID,
			}); err != nil {
				return err
			}
		}
		created, err := s.repo.Create(ctx, order)
		if err != nil {
			return err
		}
		saved = created
		return nil
	})
	if errors.Is(err, errReplayed) {
		return saved, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.SubmittedEvent(saved))
	return saved, nil
}

// SetStatus resolves a pending order. Orders that already left pending are
// rejected with domain.ErrAlreadyResolved and stay untouched.
func (s *Service) SetStatus(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	id := strings.TrimSpace(input.OrderID)
	if id == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	status, reason, err := domain.ValidateResolution(domain.Status(strings.TrimSpace(input.Status)), input.Reason)
	if err != nil {
		return nil, mapError(err)
	}
	resolved, err := s.repo.Resolve(ctx, id, status, reason, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	if event := domain.ResolvedEvent(resolved); event != nil {
		s.publish(ctx, event)
	}
	return resolved, nil
}

func (s *Service) GetByID(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns orders in submission order, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, input ordertypes.ListOrdersInput) ([]*domain.Order, error) {
	filter := ports.ListFilter{}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status := domain.Status(raw)
		if status != domain.StatusPending && !status.IsResolved() {
			return nil, mapError(domain.ErrInvalidStatus)
		}
		filter.Status = &status
	}
	return s.repo.List(ctx, filter)
}

// Console builds the staff console view at the current instant.
func (s *Service) Console(ctx context.Context) (*ordertypes.ConsoleView, error) {
	orders, err := s.repo.List(ctx, ports.ListFilter{})
	if err != nil {
		return nil, err
	}
	view := BuildConsole(orders, s.now().UTC())
	return &view, nil
}

// replay returns the order already submitted under key. A key whose order
// was never stored yields the order id it reserved instead.
func (s *Service) replay(ctx context.Context, key, requestHash string) (*domain.Order, string, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return nil, "", err
	}
	if record.RequestHash != requestHash {
		return nil, "", ports.ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, record.OrderID, nil
		}
		return nil, "", err
	}
	return order, record.OrderID, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, event)
}

var _ ports.Service = (*Service)(nil)
