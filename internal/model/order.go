package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted by the simulated checkout.
const (
	PaymentCard   = "card"
	PaymentApple  = "apple"
	PaymentGoogle = "google"
)

// Order represents a completed checkout.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Email         *string         `json:"email,omitempty" db:"email"`
	PaymentMethod string          `json:"paymentMethod" db:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee" db:"delivery_fee"`
	Total         decimal.Decimal `json:"total" db:"total"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item captured from the cart at checkout.
type OrderItem struct {
	ID          uuid.UUID       `json:"-" db:"id"`
	OrderID     uuid.UUID       `json:"-" db:"order_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity    int             `json:"quantity" db:"quantity"`
}

// CheckoutRequest represents the request payload for a simulated checkout.
type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card apple google"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
}

// CheckoutSummary is the order summary shown before paying.
type CheckoutSummary struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse represents the receipt returned for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}
