package service

import (
	"context"

	"mini-storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations over the catalogue.
type ProductService interface {
	// List returns the catalogue filtered and sorted by criteria.
	List(ctx context.Context, criteria model.FilterCriteria) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Categories returns the category labels, led by the wildcard.
	Categories(ctx context.Context) ([]string, error)
}

// CheckoutService defines the simulated checkout flow.
type CheckoutService interface {
	// Summary prices the current cart.
	Summary(ctx context.Context) (*model.CheckoutSummary, error)

	// Checkout pays for the current cart, records the order and removes the
	// ordered items from the cart.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetOrder retrieves a previously recorded order.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// Cart is the part of the session store the checkout needs.
type Cart interface {
	Cart() model.CartState
	RemoveOrdered(ordered []model.CartItem) model.CartState
}
