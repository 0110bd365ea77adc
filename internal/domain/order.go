package domain

import "time"

// Order domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}
)

// OrderStatus enumerates the fulfillment lifecycle of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidTransition reports whether moving from s to next is an allowed
// administrator action. Delivered and cancelled are terminal.
func (s OrderStatus) ValidTransition(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusShipped || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

// ShippingSelection is the shipping method descriptor frozen into an order.
type ShippingSelection struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// CustomerInfo holds the contact and delivery fields collected at checkout.
// All fields are required for an order to be accepted.
type CustomerInfo struct {
	Name    string `bson:"name" json:"name" validate:"required"`
	Email   string `bson:"email" json:"email" validate:"required,email"`
	Phone   string `bson:"phone" json:"phone" validate:"required"`
	Address string `bson:"address" json:"address" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
}

// Order is an immutable-once-placed snapshot of a checkout. Total reflects
// the prices at the time of placement; later changes to the underlying
// product's promotion or base price never alter it. Status transitions
// happen only via explicit administrator action.
type Order struct {
	ID             string            `bson:"_id,omitempty" json:"id,omitempty"`
	Items          []LineItem        `bson:"items" json:"items"`
	ShippingMethod ShippingSelection `bson:"shippingMethod" json:"shippingMethod"`
	Total          float64           `bson:"total" json:"total"`
	CustomerInfo   CustomerInfo      `bson:"customerInfo" json:"customerInfo"`
	Status         OrderStatus       `bson:"orderStatus" json:"orderStatus"`
	UserID         string            `bson:"userId,omitempty" json:"userId,omitempty"`
	UserName       string            `bson:"userName" json:"userName"`
	UserEmail      string            `bson:"userEmail" json:"userEmail"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
}

// Subtotal sums the order's line totals (total minus shipping).
func (o *Order) Subtotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return Round2(total)
}
