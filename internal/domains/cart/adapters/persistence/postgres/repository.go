package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	"github.com/Apurer/restaurant-ordering-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts in PostgreSQL using GORM. Lines are stored as a
// JSONB array in insertion order.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartRecord struct {
	ID        string                         `gorm:"primaryKey;column:id;type:uuid"`
	Lines     datatypes.JSONSlice[lineRecord] `gorm:"column:lines;type:jsonb"`
	CreatedAt time.Time                      `gorm:"column:created_at"`
	UpdatedAt time.Time                      `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "carts" }

type lineRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

// Save inserts or replaces a cart's lines.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*ports.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	if !validID(cart.ID) {
		return nil, domain.ErrEmptyCartID
	}
	record := toRecord(cart)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"lines":      record.Lines,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, record.ID)
}

func (r *Repository) Get(ctx context.Context, id string) (*ports.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ports.ErrNotFound
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Update applies fn to the cart row locked with SELECT ... FOR UPDATE.
func (r *Repository) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*ports.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ports.ErrNotFound
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record cartRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		cart := record.toProjection().Entity
		if err := fn(cart); err != nil {
			return err
		}
		return tx.Model(&cartRecord{}).Where("id = ?", id).Updates(map[string]any{
			"lines":      toRecord(cart).Lines,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// PurgeStale deletes carts not updated since cutoff.
func (r *Repository) PurgeStale(ctx context.Context, cutoff time.Time) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&cartRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toRecord(cart *domain.Cart) cartRecord {
	lines := make([]lineRecord, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, lineRecord{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	return cartRecord{ID: cart.ID, Lines: datatypes.NewJSONSlice(lines)}
}

func (r cartRecord) toProjection() *ports.CartProjection {
	cart := &domain.Cart{ID: r.ID}
	for _, line := range r.Lines {
		cart.Lines = append(cart.Lines, domain.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	return projection.New(cart, r.CreatedAt, r.UpdatedAt)
}
