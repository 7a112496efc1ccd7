package orderingserver

import (
	"time"

	cartdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// Product is a menu entry. Money fields across the API are decimal strings
// with two fraction digits.
type Product struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	ImageRef    string  `json:"imageRef,omitempty"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
}

// CartLine is one product in a cart.
type CartLine struct {
	ProductId string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	ImageRef  string `json:"imageRef,omitempty"`
}

// Cart is a visitor cart with its running total.
type Cart struct {
	Id        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	ItemCount int        `json:"itemCount"`
	Total     string     `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type AddCartLineRequest struct {
	ProductId string `json:"productId" binding:"required"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type SubmitOrderRequest struct {
	CartId          string `json:"cartId" binding:"required"`
	FulfillmentMode string `json:"fulfillmentMode" binding:"required"`
	TableNumber     *int   `json:"tableNumber,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

// OrderLine is a product snapshot inside an order.
type OrderLine struct {
	ProductId string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	ImageRef  string `json:"imageRef,omitempty"`
}

type Order struct {
	Id              string      `json:"id"`
	Lines           []OrderLine `json:"lines"`
	Total           string      `json:"total"`
	FulfillmentMode string      `json:"fulfillmentMode"`
	TableNumber     *int        `json:"tableNumber,omitempty"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	Status          string      `json:"status"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	ResolvedAt      *time.Time  `json:"resolvedAt,omitempty"`
}

type PendingOrder struct {
	Order
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Elapsed        string `json:"elapsed"`
}

type ConsoleStats struct {
	Pending    int    `json:"pending"`
	Accepted   int    `json:"accepted"`
	Rejected   int    `json:"rejected"`
	SalesTotal string `json:"salesTotal"`
}

// ConsoleView is the staff console snapshot.
type ConsoleView struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Pending     []PendingOrder `json:"pending"`
	Resolved    []Order        `json:"resolved"`
	Stats       ConsoleStats   `json:"stats"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func fromProduct(p *catalogdomain.Product) Product {
	return Product{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageRef:    p.ImageRef,
		Category:    p.Category,
		Rating:      p.Rating,
	}
}

func fromProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, fromProduct(p))
	}
	return out
}

func fromCart(projection *cartports.CartProjection) Cart {
	cart := projection.Entity
	lines := make([]CartLine, 0, len(cart.Lines))
	items := 0
	for _, line := range cart.Lines {
		lines = append(lines, fromCartLine(line))
		items += line.Quantity
	}
	return Cart{
		Id:        cart.ID,
		Lines:     lines,
		ItemCount: items,
		Total:     cart.Total().StringFixed(2),
		UpdatedAt: projection.Metadata.UpdatedAt,
	}
}

func fromCartLine(line cartdomain.Line) CartLine {
	return CartLine{
		ProductId: line.ProductID,
		Name:      line.Name,
		UnitPrice: line.UnitPrice.StringFixed(2),
		Quantity:  line.Quantity,
		Subtotal:  line.Subtotal().StringFixed(2),
		ImageRef:  line.ImageRef,
	}
}

func toSubmitInput(req SubmitOrderRequest, idempotencyKey string) ordertypes.SubmitOrderInput {
	return ordertypes.SubmitOrderInput{
		CartID:          req.CartId,
		FulfillmentMode: req.FulfillmentMode,
		TableNumber:     req.TableNumber,
		Address:         req.DeliveryAddress,
		IdempotencyKey:  idempotencyKey,
	}
}

func fromOrder(o *orderdomain.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLine{
			ProductId: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().StringFixed(2),
			ImageRef:  line.ImageRef,
		})
	}
	return Order{
		Id:              o.ID,
		Lines:           lines,
		Total:           o.Total.StringFixed(2),
		FulfillmentMode: string(o.Fulfillment.Mode),
		TableNumber:     o.Fulfillment.TableNumber,
		DeliveryAddress: o.Fulfillment.Address,
		Status:          string(o.Status),
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		ResolvedAt:      o.ResolvedAt,
	}
}

func fromOrders(orders []*orderdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromOrder(o))
	}
	return out
}

func fromConsoleView(view *ordertypes.ConsoleView) ConsoleView {
	pending := make([]PendingOrder, 0, len(view.Pending))
	for _, p := range view.Pending {
		pending = append(pending, PendingOrder{
			Order:          fromOrder(p.Order),
			ElapsedSeconds: int64(p.Elapsed.Seconds()),
			Elapsed:        orderapp.FormatElapsed(p.Elapsed),
		})
	}
	return ConsoleView{
		GeneratedAt: view.GeneratedAt,
		Pending:     pending,
		Resolved:    fromOrders(view.Resolved),
		Stats: ConsoleStats{
			Pending:    view.Stats.Pending,
			Accepted:   view.Stats.Accepted,
			Rejected:   view.Stats.Rejected,
			SalesTotal: view.Stats.SalesTotal.StringFixed(2),
		},
	}
}
