package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	burger = Product{ID: "1", Name: "Classic Burger", UnitPrice: decimal.RequireFromString("18.90"), ImageRef: "burger.jpg"}
	fries  = Product{ID: "4", Name: "French Fries", UnitPrice: decimal.RequireFromString("12.90"), ImageRef: "fries.jpg"}
	soda   = Product{ID: "5", Name: "Soda", UnitPrice: decimal.RequireFromString("6.90"), ImageRef: "soda.jpg"}
)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewCart("cart-1")
	require.NoError(t, err)
	return c
}

func TestNewCart_RequiresID(t *testing.T) {
	_, err := NewCart("  ")
	require.ErrorIs(t, err, ErrEmptyCartID)
}

func TestAddLine_SameProductTwiceMergesIntoOneLine(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(burger))

	require.Len(t, c.Lines, 1)
	require.Equal(t, 2, c.Lines[0].Quantity)
	require.Equal(t, "Classic Burger", c.Lines[0].Name)
}

func TestAddLine_KeepsInsertionOrder(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(soda))
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(soda))

	require.Equal(t, []string{"5", "1"}, []string{c.Lines[0].ProductID, c.Lines[1].ProductID})
}

func TestAddLine_RejectsBlankProduct(t *testing.T) {
	c := newTestCart(t)
	require.ErrorIs(t, c.AddLine(Product{}), ErrEmptyProductID)
	require.True(t, c.IsEmpty())
}

func TestRemoveLine(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(fries))

	c.RemoveLine("missing")
	require.Len(t, c.Lines, 2)

	c.RemoveLine("1")
	require.Len(t, c.Lines, 1)
	require.Equal(t, "4", c.Lines[0].ProductID)
}

func TestSetQuantity(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))

	c.SetQuantity("1", 5)
	require.Equal(t, 5, c.Lines[0].Quantity)

	c.SetQuantity("missing", 3)
	require.Len(t, c.Lines, 1)

	c.SetQuantity("1", 0)
	require.True(t, c.IsEmpty())

	require.NoError(t, c.AddLine(burger))
	c.SetQuantity("1", -2)
	require.True(t, c.IsEmpty())
}

func TestClear(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))
	c.Clear()
	require.True(t, c.IsEmpty())
	require.True(t, c.Total().IsZero())
}

func TestTotal(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(fries))

	require.Equal(t, "50.70", c.Total().StringFixed(2))
}

func TestTotal_MatchesLineSumForRandomOperations(t *testing.T) {
	products := []Product{burger, fries, soda}
	rng := rand.New(rand.NewSource(42))
	c := newTestCart(t)

	for step := 0; step < 500; step++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, c.AddLine(p))
		case 1:
			c.RemoveLine(p.ID)
		case 2:
			c.SetQuantity(p.ID, rng.Intn(6)-1)
		}

		expected := decimal.Zero
		for _, line := range c.Lines {
			require.GreaterOrEqual(t, line.Quantity, 1)
			expected = expected.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		require.True(t, expected.Equal(c.Total()), "step %d", step)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddLine(burger))
	clone := c.Clone()
	clone.SetQuantity("1", 9)

	require.Equal(t, 1, c.Lines[0].Quantity)
}

func TestTakeLines(t *testing.T) {
	c := newTestCart(t)
	require.Nil(t, c.TakeLines())

	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(burger))
	require.NoError(t, c.AddLine(fries))

	lines := c.TakeLines()
	require.Len(t, lines, 2)
	require.Equal(t, 2, lines[0].Quantity)
	require.True(t, c.IsEmpty())
	require.True(t, c.Total().IsZero())
}
