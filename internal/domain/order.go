package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const StatusPending OrderStatus = "pending"

type Order struct {
	ID           int         `json:"id"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []OrderItem `json:"items"`
}

type OrderPatch struct {
	Status Optional[OrderStatus]
}

func (p OrderPatch) IsEmpty() bool {
	return !p.Status.IsSet()
}

// OrderItem is a purchase line. PriceAtPurchase is captured once and never rewritten.
type OrderItem struct {
	ID              int             `json:"id"`
	OrderID         int             `json:"order_id"`
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id int) (*Order, error)
	UpdateOrder(ctx context.Context, id int, patch OrderPatch) (*Order, error)
	DeleteOrder(ctx context.Context, id int) error
	ListOrders(ctx context.Context) ([]Order, error)
}

type OrderItemRepository interface {
	// PlaceOrderItem decrements the product stock by item.Quantity and inserts the
	// item as one atomic unit, filling in ID and PriceAtPurchase. It fails with
	// ErrInsufficientStock, leaving stock untouched, when stock < quantity.
	PlaceOrderItem(ctx context.Context, item *OrderItem) (*OrderItem, error)
	GetOrderItemByID(ctx context.Context, id int) (*OrderItem, error)
	ListOrderItems(ctx context.Context) ([]OrderItem, error)
}
