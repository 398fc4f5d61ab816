package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mini-storefront/internal/model"
	"mini-storefront/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

type failingOrderBook struct{}

func (failingOrderBook) Record(context.Context, *model.Order, []model.OrderItem) error {
	return errors.New("database unavailable")
}

func (failingOrderBook) Get(context.Context, uuid.UUID) (*model.OrderResponse, error) {
	return nil, errors.New("database unavailable")
}

func newCartStore(t *testing.T, products ...model.Product) *store.Store {
	t.Helper()
	cfg := store.DefaultConfig()
	cfg.LoginDelay = 0
	s := store.New(context.Background(), cfg, nil, zerolog.Nop())
	for _, p := range products {
		s.AddItem(p)
	}
	return s
}

func checkoutConfig(delay time.Duration) *CheckoutConfig {
	cfg := DefaultCheckoutConfig()
	cfg.ProcessingDelay = delay
	return cfg
}

func TestCheckoutService_Summary(t *testing.T) {
	cart := newCartStore(t,
		model.Product{ID: "a", Name: "A", Price: 0.1},
		model.Product{ID: "a", Name: "A", Price: 0.1},
		model.Product{ID: "a", Name: "A", Price: 0.1},
		model.Product{ID: "b", Name: "B", Price: 0.2},
	)
	service := NewCheckoutService(cart, NewMemoryOrderBook(), nil, nil, zerolog.Nop())

	summary, err := service.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, summary.ItemCount)
	assert.Equal(t, "0.50", summary.Subtotal.StringFixed(2))
	assert.Equal(t, "4.00", summary.DeliveryFee.StringFixed(2))
	assert.Equal(t, "4.50", summary.Total.StringFixed(2))
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	cart := newCartStore(t,
		model.Product{ID: "a", Name: "Dark Chocolate", Price: 4.5},
		model.Product{ID: "b", Name: "Cola", Price: 1.25},
		model.Product{ID: "a", Name: "Dark Chocolate", Price: 4.5},
	)
	service := NewCheckoutService(cart, NewMemoryOrderBook(), checkoutConfig(0), nil, zerolog.Nop())
	ctx := context.Background()

	receipt, err := service.Checkout(ctx, &model.CheckoutRequest{PaymentMethod: model.PaymentApple, Email: " shopper@example.com "})

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.NotEqual(t, uuid.Nil, receipt.ID)
	assert.Equal(t, model.PaymentApple, receipt.PaymentMethod)
	require.NotNil(t, receipt.Email)
	assert.Equal(t, "shopper@example.com", *receipt.Email)
	assert.Equal(t, "10.25", receipt.Subtotal.StringFixed(2))
	assert.Equal(t, "14.25", receipt.Total.StringFixed(2))

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "a", receipt.Items[0].ProductID)
	assert.Equal(t, 2, receipt.Items[0].Quantity)
	assert.Equal(t, receipt.ID, receipt.Items[0].OrderID)
	assert.Equal(t, "b", receipt.Items[1].ProductID)

	assert.Empty(t, cart.Cart().Items, "cart must be cleared after checkout")

	stored, err := service.GetOrder(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, stored.ID)
	assert.Len(t, stored.Items, 2)
}

func TestCheckoutService_Checkout_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		products []model.Product
		req      *model.CheckoutRequest
		code     string
	}{
		{
			name: "Empty cart",
			req:  &model.CheckoutRequest{PaymentMethod: model.PaymentCard},
			code: model.ErrCodeEmptyCart,
		},
		{
			name:     "Unknown payment method",
			products: []model.Product{{ID: "a", Name: "A", Price: 1}},
			req:      &model.CheckoutRequest{PaymentMethod: "cash"},
			code:     model.ErrCodeValidation,
		},
		{
			name:     "Malformed email",
			products: []model.Product{{ID: "a", Name: "A", Price: 1}},
			req:      &model.CheckoutRequest{PaymentMethod: model.PaymentCard, Email: "not-an-email"},
			code:     model.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := newCartStore(t, tt.products...)
			before := cart.Cart()
			service := NewCheckoutService(cart, NewMemoryOrderBook(), checkoutConfig(0), nil, zerolog.Nop())

			receipt, err := service.Checkout(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, receipt)
			var domainErr *model.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, before, cart.Cart())
		})
	}
}

func TestCheckoutService_Checkout_OneAtATime(t *testing.T) {
	cart := newCartStore(t, model.Product{ID: "a", Name: "A", Price: 1})
	svc := NewCheckoutService(cart, NewMemoryOrderBook(), checkoutConfig(200*time.Millisecond), nil, zerolog.Nop())
	impl := svc.(*checkoutService)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), &model.CheckoutRequest{PaymentMethod: model.PaymentCard})
		done <- err
	}()
	require.Eventually(t, impl.inProgress.Load, time.Second, 5*time.Millisecond)

	_, err := svc.Checkout(context.Background(), &model.CheckoutRequest{PaymentMethod: model.PaymentGoogle})
	assert.ErrorIs(t, err, model.ErrCheckoutInProgress)

	assert.NoError(t, <-done)
	assert.False(t, impl.inProgress.Load())
}

// snapshotSignalCart closes taken once the checkout has read the cart.
type snapshotSignalCart struct {
	*store.Store
	taken chan struct{}
	once  sync.Once
}

func (c *snapshotSignalCart) Cart() model.CartState {
	state := c.Store.Cart()
	c.once.Do(func() { close(c.taken) })
	return state
}

func TestCheckoutService_Checkout_KeepsItemsAddedDuringProcessing(t *testing.T) {
	tests := []struct {
		name     string
		add      model.Product
		expected map[string]int
	}{
		{
			name:     "New product",
			add:      model.Product{ID: "b", Name: "B", Price: 2},
			expected: map[string]int{"b": 1},
		},
		{
			name:     "More of an ordered product",
			add:      model.Product{ID: "a", Name: "A", Price: 1},
			expected: map[string]int{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &snapshotSignalCart{
				Store: newCartStore(t, model.Product{ID: "a", Name: "A", Price: 1}),
				taken: make(chan struct{}),
			}
			svc := NewCheckoutService(cart, NewMemoryOrderBook(), checkoutConfig(100*time.Millisecond), nil, zerolog.Nop())

			type result struct {
				receipt *model.OrderResponse
				err     error
			}
			done := make(chan result, 1)
			go func() {
				receipt, err := svc.Checkout(context.Background(), &model.CheckoutRequest{PaymentMethod: model.PaymentCard})
				done <- result{receipt, err}
			}()

			select {
			case <-cart.taken:
			case <-time.After(time.Second):
				t.Fatal("checkout never read the cart")
			}
			cart.AddItem(tt.add)

			res := <-done
			require.NoError(t, res.err)
			require.Len(t, res.receipt.Items, 1)
			assert.Equal(t, "a", res.receipt.Items[0].ProductID)
			assert.Equal(t, 1, res.receipt.Items[0].Quantity)

			got := map[string]int{}
			for _, item := range cart.Store.Cart().Items {
				got[item.Product.ID] = item.Quantity
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckoutService_Checkout_Cancelled(t *testing.T) {
	cart := newCartStore(t, model.Product{ID: "a", Name: "A", Price: 1})
	service := NewCheckoutService(cart, NewMemoryOrderBook(), checkoutConfig(time.Second), nil, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	receipt, err := service.Checkout(ctx, &model.CheckoutRequest{PaymentMethod: model.PaymentCard})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, receipt)
	assert.Equal(t, 1, cart.Cart().ItemCount, "cancelled checkout must keep the cart")
}

func TestCheckoutService_Checkout_RecordFailureKeepsCart(t *testing.T) {
	cart := newCartStore(t, model.Product{ID: "a", Name: "A", Price: 1})
	service := NewCheckoutService(cart, failingOrderBook{}, checkoutConfig(0), nil, zerolog.Nop())

	receipt, err := service.Checkout(context.Background(), &model.CheckoutRequest{PaymentMethod: model.PaymentCard})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to complete checkout")
	assert.Nil(t, receipt)
	assert.Equal(t, 1, cart.Cart().ItemCount)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		service := NewCheckoutService(newCartStore(t), NewMemoryOrderBook(), nil, nil, zerolog.Nop())

		resp, err := service.GetOrder(context.Background(), uuid.New())

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
		assert.Nil(t, resp)
	})

	t.Run("Order book failure", func(t *testing.T) {
		service := NewCheckoutService(newCartStore(t), failingOrderBook{}, nil, nil, zerolog.Nop())

		resp, err := service.GetOrder(context.Background(), uuid.New())

		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrOrderNotFound)
		assert.Nil(t, resp)
	})
}

func TestRepositoryOrderBook_Record(t *testing.T) {
	ctx := context.Background()
	order := &model.Order{ID: uuid.New(), PaymentMethod: model.PaymentCard, Total: decimal.NewFromInt(5)}
	items := []model.OrderItem{{ID: uuid.New(), OrderID: order.ID, ProductID: "a", Quantity: 1}}

	t.Run("Commits on success", func(t *testing.T) {
		repo := new(MockOrderRepository)
		tx := new(MockTx)
		repo.On("BeginTx", ctx).Return(tx, nil)
		repo.On("CreateOrder", ctx, tx, order).Return(nil)
		repo.On("CreateOrderItems", ctx, tx, items).Return(nil)
		tx.On("Commit", ctx).Return(nil)

		err := NewRepositoryOrderBook(repo, zerolog.Nop()).Record(ctx, order, items)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		tx.AssertExpectations(t)
		tx.AssertNotCalled(t, "Rollback", mock.Anything)
	})

	t.Run("Rolls back when items fail", func(t *testing.T) {
		repo := new(MockOrderRepository)
		tx := new(MockTx)
		repo.On("BeginTx", ctx).Return(tx, nil)
		repo.On("CreateOrder", ctx, tx, order).Return(nil)
		repo.On("CreateOrderItems", ctx, tx, items).Return(errors.New("constraint violation"))
		tx.On("Rollback", ctx).Return(nil)

		err := NewRepositoryOrderBook(repo, zerolog.Nop()).Record(ctx, order, items)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record order items")
		tx.AssertExpectations(t)
		tx.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("Begin failure", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("BeginTx", ctx).Return(nil, errors.New("pool closed"))

		err := NewRepositoryOrderBook(repo, zerolog.Nop()).Record(ctx, order, items)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRepositoryOrderBook_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := &model.Order{ID: id, PaymentMethod: model.PaymentCard}
		items := []model.OrderItem{{ProductID: "a", Quantity: 2}}
		repo.On("GetByID", ctx, id).Return(order, items, nil)

		resp, err := NewRepositoryOrderBook(repo, zerolog.Nop()).Get(ctx, id)

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, items, resp.Items)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GetByID", ctx, id).Return(nil, nil, nil)

		resp, err := NewRepositoryOrderBook(repo, zerolog.Nop()).Get(ctx, id)

		require.NoError(t, err)
		assert.Nil(t, resp)
	})
}
