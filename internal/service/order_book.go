package service

import (
	"context"
	"fmt"
	"sync"

	"mini-storefront/internal/model"
	"mini-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderBook records completed checkouts.
type OrderBook interface {
	// Record stores an order and its items atomically.
	Record(ctx context.Context, order *model.Order, items []model.OrderItem) error

	// Get returns the order with the given id, or nil when it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// repositoryOrderBook records orders in PostgreSQL through an OrderRepository.
type repositoryOrderBook struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewRepositoryOrderBook creates an order book backed by orderRepo.
func NewRepositoryOrderBook(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderBook {
	return &repositoryOrderBook{
		orderRepo: orderRepo,
		logger:    logger.With().Str("component", "order-book").Logger(),
	}
}

func (b *repositoryOrderBook) Record(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := b.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				b.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = b.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}

	if err = b.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return fmt.Errorf("failed to record order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		b.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to record order: %w", err)
	}

	return nil
}

func (b *repositoryOrderBook) Get(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := b.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}
	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// memoryOrderBook keeps receipts in process memory.
type memoryOrderBook struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]model.OrderResponse
}

// NewMemoryOrderBook creates an order book that lives as long as the process.
func NewMemoryOrderBook() OrderBook {
	return &memoryOrderBook{
		orders: make(map[uuid.UUID]model.OrderResponse),
	}
}

func (b *memoryOrderBook) Record(_ context.Context, order *model.Order, items []model.OrderItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders[order.ID] = model.OrderResponse{
		Order: *order,
		Items: append([]model.OrderItem{}, items...),
	}
	return nil
}

func (b *memoryOrderBook) Get(_ context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	resp, ok := b.orders[id]
	if !ok {
		return nil, nil
	}
	resp.Items = append([]model.OrderItem{}, resp.Items...)
	return &resp, nil
}
