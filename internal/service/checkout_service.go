package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"mini-storefront/internal/metrics"
	"mini-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutConfig holds configuration for the simulated checkout.
type CheckoutConfig struct {
	// ProcessingDelay simulates the payment provider round trip.
	ProcessingDelay time.Duration

	// DeliveryFee is added to every order.
	DeliveryFee decimal.Decimal
}

// DefaultCheckoutConfig returns the default checkout configuration.
func DefaultCheckoutConfig() *CheckoutConfig {
	return &CheckoutConfig{
		ProcessingDelay: 2 * time.Second,
		DeliveryFee:     decimal.RequireFromString("4.00"),
	}
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	cart       Cart
	orders     OrderBook
	config     CheckoutConfig
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	inProgress atomic.Bool
}

// NewCheckoutService creates a new checkout service.
// If config is nil, DefaultCheckoutConfig is used.
func NewCheckoutService(cart Cart, orders OrderBook, config *CheckoutConfig, m *metrics.Metrics, logger zerolog.Logger) CheckoutService {
	if config == nil {
		config = DefaultCheckoutConfig()
	}
	return &checkoutService{
		cart:    cart,
		orders:  orders,
		config:  *config,
		metrics: m,
		logger:  logger.With().Str("service", "checkout").Logger(),
	}
}

// Summary prices the current cart. Amounts are rounded to cents.
func (s *checkoutService) Summary(ctx context.Context) (*model.CheckoutSummary, error) {
	cart := s.cart.Cart()
	subtotal := subtotalOf(cart.Items)
	fee := s.config.DeliveryFee.Round(2)

	return &model.CheckoutSummary{
		ItemCount:   cart.ItemCount,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}, nil
}

// Checkout simulates paying for the cart. Only one checkout runs at a time.
// The ordered quantities leave the cart only after the order has been
// recorded; items added while payment was processing are kept.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("checkout request is nil")
	}

	normalized := *req
	normalized.Email = strings.TrimSpace(req.Email)
	req = &normalized

	if err := model.Validate(req); err != nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("Checkout request is invalid: %v", err))
	}

	if !s.inProgress.CompareAndSwap(false, true) {
		s.metrics.IncCheckout("conflict", 0)
		s.logger.Warn().Msg("checkout already in progress")
		return nil, model.ErrCheckoutInProgress
	}
	defer s.inProgress.Store(false)

	cart := s.cart.Cart()
	if len(cart.Items) == 0 {
		s.metrics.IncCheckout("empty", 0)
		return nil, model.ErrEmptyCart
	}

	s.logger.Info().
		Str("payment_method", req.PaymentMethod).
		Int("item_count", cart.ItemCount).
		Msg("processing checkout")

	if err := sleepContext(ctx, s.config.ProcessingDelay); err != nil {
		s.metrics.IncCheckout("cancelled", 0)
		s.logger.Info().Err(err).Msg("checkout cancelled")
		return nil, err
	}

	order, items := s.buildOrder(req, cart)

	if err := s.orders.Record(ctx, order, items); err != nil {
		s.metrics.IncCheckout("failed", 0)
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to record order")
		return nil, fmt.Errorf("failed to complete checkout: %w", err)
	}

	s.cart.RemoveOrdered(cart.Items)

	s.metrics.IncCheckout("success", order.Total.InexactFloat64())
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("total", order.Total.StringFixed(2)).
		Int("item_count", len(items)).
		Msg("checkout completed")

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetOrder retrieves a previously recorded order.
func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	resp, err := s.orders.Get(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, err
	}

	if resp == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return resp, nil
}

func (s *checkoutService) buildOrder(req *model.CheckoutRequest, cart model.CartState) (*model.Order, []model.OrderItem) {
	subtotal := subtotalOf(cart.Items)
	fee := s.config.DeliveryFee.Round(2)

	order := &model.Order{
		ID:            uuid.New(),
		PaymentMethod: req.PaymentMethod,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal.Add(fee),
		CreatedAt:     time.Now().UTC(),
	}
	if req.Email != "" {
		email := req.Email
		order.Email = &email
	}

	items := make([]model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			UnitPrice:   decimal.NewFromFloat(item.Product.Price).Round(2),
			Quantity:    item.Quantity,
		}
	}

	return order, items
}

// subtotalOf sums the cart in decimal arithmetic and rounds to cents.
func subtotalOf(items []model.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return subtotal.Round(2)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
