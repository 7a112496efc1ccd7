package memory

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
)

// DefaultMenu returns the house menu served when no database is configured.
func DefaultMenu() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "1",
			Name:        "Classic Burger",
			Description: "Beef patty, cheddar, lettuce, tomato and house sauce",
			Price:       decimal.RequireFromString("18.90"),
			ImageRef:    "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop",
			Category:    "Burgers",
			Rating:      4.8,
		},
		{
			ID:          "2",
			Name:        "Bacon Burger",
			Description: "Double beef patty with crispy bacon and caramelized onions",
			Price:       decimal.RequireFromString("22.90"),
			ImageRef:    "https://images.unsplash.com/photo-1550317138-10000687a72b?w=400&h=300&fit=crop",
			Category:    "Burgers",
			Rating:      4.9,
		},
		{
			ID:          "3",
			Name:        "Veggie Burger",
			Description: "Grilled chickpea patty with avocado and greens",
			Price:       decimal.RequireFromString("19.90"),
			ImageRef:    "https://images.unsplash.com/photo-1525059696034-4967a729002e?w=400&h=300&fit=crop",
			Category:    "Burgers",
			Rating:      4.7,
		},
		{
			ID:          "4",
			Name:        "French Fries",
			Description: "Crispy fries with sea salt",
			Price:       decimal.RequireFromString("12.90"),
			ImageRef:    "https://images.unsplash.com/photo-1576107232684-1279f390859f?w=400&h=300&fit=crop",
			Category:    "Sides",
			Rating:      4.6,
		},
		{
			ID:          "5",
			Name:        "Soda",
			Description: "Chilled 350ml can",
			Price:       decimal.RequireFromString("6.90"),
			ImageRef:    "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=400&h=300&fit=crop",
			Category:    "Drinks",
			Rating:      4.5,
		},
		{
			ID:          "6",
			Name:        "Fresh Juice",
			Description: "Orange juice squeezed to order",
			Price:       decimal.RequireFromString("8.90"),
			ImageRef:    "https://images.unsplash.com/photo-1600271886742-f049cd451bba?w=400&h=300&fit=crop",
			Category:    "Drinks",
			Rating:      4.8,
		},
	}
}
