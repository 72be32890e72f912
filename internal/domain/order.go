package domain

import "time"

// Order lifecycle states.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderFulfilled = "fulfilled"
	OrderCancelled = "cancelled"
)

// Order is a customer purchase, joined to the customer by phone.
// Totals are computed server-side from the catalog at creation time.
type Order struct {
	OrderID    string      `json:"id" dynamodbav:"order_id"`
	Phone      string      `json:"phone" dynamodbav:"phone"`
	Status     string      `json:"status" dynamodbav:"status"`
	TotalCents int64       `json:"total_cents" dynamodbav:"total_cents"`
	Currency   string      `json:"currency" dynamodbav:"currency"`
	Note       string      `json:"note,omitempty" dynamodbav:"note"`
	CreatedAt  time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time   `json:"updated" dynamodbav:"updated_at"`
	Lines      []OrderItem `json:"lines,omitempty" dynamodbav:"-"`
}

// OrderItem is one line of an order. Title and price are denormalized at
// order time so later catalog edits don't rewrite order history.
type OrderItem struct {
	OrderID    string `json:"-" dynamodbav:"order_id"`
	ItemID     string `json:"item_id" dynamodbav:"item_id"`
	Title      string `json:"title" dynamodbav:"title"`
	PriceCents int64  `json:"price_cents" dynamodbav:"price_cents"`
	Quantity   int    `json:"quantity" dynamodbav:"quantity"`
}

type CreateOrderRequest struct {
	Lines []CreateOrderLine `json:"lines" validate:"required,min=1,dive"`
	Note  string            `json:"note"`
}

type CreateOrderLine struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// OrderStatusTransitions lists the allowed status moves for admin updates.
var OrderStatusTransitions = map[string][]string{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderFulfilled, OrderCancelled},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, s := range OrderStatusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
