package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
	pgplatform "github.com/Apurer/restaurant-ordering-api/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Submission order is
// the server-assigned seq column.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              string                          `gorm:"primaryKey;column:id;type:uuid"`
	Seq             int64                           `gorm:"column:seq;->"`
	Lines           datatypes.JSONSlice[lineRecord] `gorm:"column:lines;type:jsonb"`
	Total           decimal.Decimal                 `gorm:"column:total;type:numeric(12,2)"`
	FulfillmentMode string                          `gorm:"column:fulfillment_mode;type:varchar(16)"`
	TableNumber     *int                            `gorm:"column:table_number"`
	DeliveryAddress *string                         `gorm:"column:delivery_address"`
	Status          string                          `gorm:"column:status;type:varchar(16);index"`
	RejectionReason *string                         `gorm:"column:rejection_reason"`
	CreatedAt       time.Time                       `gorm:"column:created_at"`
	ResolvedAt      *time.Time                      `gorm:"column:resolved_at"`
	UpdatedAt       time.Time                       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if pgplatform.IsUniqueViolation(err) {
			return nil, fmt.Errorf("order %s already exists: %w", order.ID, err)
		}
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns orders in submission order.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	var records []orderRecord
	if err := query.Order("seq ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Resolve updates the order only while it is still pending.
func (r *Repository) Resolve(ctx context.Context, id string, status domain.Status, reason string, at time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	status, reason, err := domain.ValidateResolution(status, reason)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var rejection *string
	if reason != "" {
		rejection = &reason
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":           string(status),
			"rejection_reason": rejection,
			"resolved_at":      at,
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyResolved
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]lineRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, lineRecord{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	record := orderRecord{
		ID:              order.ID,
		Lines:           datatypes.NewJSONSlice(lines),
		Total:           order.Total,
		FulfillmentMode: string(order.Fulfillment.Mode),
		TableNumber:     order.Fulfillment.TableNumber,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		ResolvedAt:      order.ResolvedAt,
	}
	if order.Fulfillment.Mode == domain.ModeDelivery {
		address := order.Fulfillment.Address
		record.DeliveryAddress = &address
	}
	if order.RejectionReason != "" {
		reason := order.RejectionReason
		record.RejectionReason = &reason
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:    r.ID,
		Total: r.Total,
		Fulfillment: domain.Fulfillment{
			Mode:        domain.FulfillmentMode(r.FulfillmentMode),
			TableNumber: r.TableNumber,
		},
		CreatedAt:  r.CreatedAt.UTC(),
		Status:     domain.Status(r.Status),
		ResolvedAt: r.ResolvedAt,
	}
	if r.DeliveryAddress != nil {
		order.Fulfillment.Address = *r.DeliveryAddress
	}
	if r.RejectionReason != nil {
		order.RejectionReason = *r.RejectionReason
	}
	if order.ResolvedAt != nil {
		resolved := order.ResolvedAt.UTC()
		order.ResolvedAt = &resolved
	}
	for _, line := range r.Lines {
		order.Lines = append(order.Lines, domain.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	return order
}
