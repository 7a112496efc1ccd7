package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// AllCategories selects every category when filtering the menu.
const AllCategories = "all"

var (
	ErrEmptyProductID   = errors.New("product id is required")
	ErrEmptyProductName = errors.New("product name is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
)

// Product is one dish or drink on the restaurant menu.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageRef    string
	Category    string
	Rating      float64
}

// NewProduct validates the menu invariants and builds a Product.
func NewProduct(id, name, description string, price decimal.Decimal, imageRef, category string, rating float64) (*Product, error) {
	p := &Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		ImageRef:    strings.TrimSpace(imageRef),
		Category:    strings.TrimSpace(category),
		Rating:      rating,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyProductID
	}
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Filter narrows the menu listing.
type Filter struct {
	Search   string
	Category string
}

// Matches reports whether the product satisfies the filter. Search is a
// case-insensitive substring match on name or description.
func (f Filter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	category := strings.TrimSpace(f.Category)
	if category != "" && !strings.EqualFold(category, AllCategories) && !strings.EqualFold(category, p.Category) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
