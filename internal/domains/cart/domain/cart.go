package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCartID    = errors.New("cart id is required")
	ErrEmptyProductID = errors.New("product id is required")
)

// Product is the catalog data a cart needs to open a line.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// Line is one product entry in a cart. Quantity is always at least one.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines a visitor intends to purchase, in the order they were added.
type Cart struct {
	ID    string
	Lines []Line
}

// NewCart builds an empty cart.
func NewCart(id string) (*Cart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyCartID
	}
	return &Cart{ID: id}, nil
}

// AddLine increments the quantity of an existing line for the product or
// appends a new line with quantity one.
func (c *Cart) AddLine(p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProductID
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		return nil
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  1,
		ImageRef:  p.ImageRef,
	})
	return nil
}

// RemoveLine deletes the line for productID. Unknown ids are ignored.
func (c *Cart) RemoveLine(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.RemoveLine(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Lines[i].Quantity = qty
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Total sums unit price times quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TakeLines empties the cart and returns the lines it held.
func (c *Cart) TakeLines() []Line {
	if c.IsEmpty() {
		return nil
	}
	lines := c.Lines
	c.Lines = nil
	return lines
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := &Cart{ID: c.ID}
	if len(c.Lines) > 0 {
		clone.Lines = append([]Line(nil), c.Lines...)
	}
	return clone
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
