// Package store holds the storefront's session state: the cart, the wishlist,
// the signed-in user and the UI flags. A Store is the single owner of that
// state; all changes go through its methods.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"mini-storefront/internal/metrics"
	"mini-storefront/internal/model"
	"mini-storefront/internal/persistence"

	"github.com/rs/zerolog"
)

// DefaultStorageKey is the key snapshots are persisted under.
const DefaultStorageKey = "cart-storage"

// Theme is the presentation theme derived from the dark mode flag.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// State is a consistent snapshot of everything the store owns.
type State struct {
	Cart       model.CartState `json:"cart"`
	IsCartOpen bool            `json:"isCartOpen"`
	Wishlist   []model.Product `json:"wishlist"`
	User       *model.User     `json:"user"`
	IsDarkMode bool            `json:"isDarkMode"`
}

// Theme returns the theme the view layer should render.
func (s State) Theme() Theme {
	if s.IsDarkMode {
		return ThemeDark
	}
	return ThemeLight
}

// clone returns a deep copy that shares no slices or pointers with s.
func (s State) clone() State {
	out := s
	items := make([]model.CartItem, len(s.Cart.Items))
	for i, item := range s.Cart.Items {
		items[i] = model.CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	out.Cart = model.NewCartState(items)
	out.Wishlist = make([]model.Product, len(s.Wishlist))
	for i, p := range s.Wishlist {
		out.Wishlist[i] = p.Clone()
	}
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return out
}

func defaultState() State {
	return State{
		Cart:     model.NewCartState(nil),
		Wishlist: []model.Product{},
	}
}

// Config holds configuration for the store.
type Config struct {
	// StorageKey is the key snapshots are saved under. Default: "cart-storage".
	StorageKey string

	// LoginDelay simulates the latency of a remote sign-in call.
	LoginDelay time.Duration

	// AvatarBaseURL is the avatar service used for signed-in users.
	AvatarBaseURL string

	// PersistTimeout bounds a single snapshot save. Default: 2s.
	PersistTimeout time.Duration

	// ThemeSink, if set, is told which theme to render at start-up and on every toggle.
	ThemeSink func(Theme)

	// Metrics records store activity. May be nil.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		StorageKey:     DefaultStorageKey,
		LoginDelay:     time.Second,
		AvatarBaseURL:  "https://api.dicebear.com/7.x/avataaars/svg",
		PersistTimeout: 2 * time.Second,
	}
}

// Store is the single authoritative owner of cart, wishlist and session state.
// It is safe for concurrent use: mutations are applied one at a time and
// readers always observe a state whose totals match its items.
type Store struct {
	// writeMu serializes mutations, including their persist and notify steps.
	writeMu sync.Mutex
	// mu guards state.
	mu    sync.RWMutex
	state State

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int

	loginMu     sync.Mutex
	loginSeq    uint64
	cancelLogin context.CancelFunc

	storage persistence.Storage
	config  Config
	logger  zerolog.Logger
}

// New creates a store and rehydrates it from storage. A missing or unreadable
// snapshot leaves the store in its default, empty state.
// If storage is nil, snapshots are kept in memory only.
func New(ctx context.Context, config *Config, storage persistence.Storage, logger zerolog.Logger) *Store {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	cfg := *config
	if cfg.StorageKey == "" {
		cfg.StorageKey = defaults.StorageKey
	}
	if cfg.AvatarBaseURL == "" {
		cfg.AvatarBaseURL = defaults.AvatarBaseURL
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaults.PersistTimeout
	}
	if storage == nil {
		storage = persistence.NewMemoryStorage()
	}

	s := &Store{
		state:       defaultState(),
		subscribers: make(map[int]func(State)),
		storage:     storage,
		config:      cfg,
		logger:      logger.With().Str("component", "store").Logger(),
	}

	s.rehydrate(ctx)

	if s.config.ThemeSink != nil {
		s.config.ThemeSink(s.state.Theme())
	}

	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	data, err := s.storage.Load(ctx, s.config.StorageKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			s.logger.Info().Str("key", s.config.StorageKey).Msg("no snapshot found, starting with empty state")
			return
		}
		s.logger.Warn().Err(err).Str("key", s.config.StorageKey).Msg("failed to load snapshot, starting with empty state")
		return
	}

	state, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.config.StorageKey).Msg("discarding corrupt snapshot")
		return
	}

	s.state = state
	s.logger.Info().
		Int("cart_items", state.Cart.ItemCount).
		Int("wishlist", len(state.Wishlist)).
		Bool("signed_in", state.User != nil).
		Msg("state rehydrated from snapshot")
}

// State returns a snapshot of the whole store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Cart returns a snapshot of the cart.
func (s *Store) Cart() model.CartState {
	return s.State().Cart
}

// Subscribe registers fn to receive the new state after every mutation, in
// mutation order. fn must not call mutating store methods.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// mutate applies fn to the state as one atomic step, then persists and
// publishes the result.
func (s *Store) mutate(operation string, fn func(st *State)) State {
	next, _ := s.mutateIf(operation, func(st *State) bool {
		fn(st)
		return true
	})
	return next
}

// mutateIf is mutate for operations that may decide not to apply. When fn
// returns false nothing is persisted or published.
func (s *Store) mutateIf(operation string, fn func(st *State) bool) (State, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	wasDark := s.state.IsDarkMode
	applied := fn(&s.state)
	next := s.state.clone()
	s.mu.Unlock()

	if !applied {
		return next, false
	}

	s.logger.Debug().
		Str("operation", operation).
		Int("item_count", next.Cart.ItemCount).
		Float64("total", next.Cart.Total).
		Int("wishlist", len(next.Wishlist)).
		Msg("state updated")

	s.config.Metrics.ObserveMutation(operation, next.Cart.ItemCount, next.Cart.Total, len(next.Wishlist))
	s.persist(next)
	if next.IsDarkMode != wasDark && s.config.ThemeSink != nil {
		s.config.ThemeSink(next.Theme())
	}
	s.notify(next)

	return next, true
}

// persist saves a snapshot. Failures are logged and otherwise ignored.
func (s *Store) persist(state State) {
	data, err := encodeSnapshot(state)
	if err != nil {
		s.config.Metrics.IncPersistFailure()
		s.logger.Warn().Err(err).Msg("failed to encode snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.PersistTimeout)
	defer cancel()

	if err := s.storage.Save(ctx, s.config.StorageKey, data); err != nil {
		s.config.Metrics.IncPersistFailure()
		s.logger.Warn().Err(err).Str("key", s.config.StorageKey).Msg("failed to persist snapshot")
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	listeners := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(state.clone())
	}
}
