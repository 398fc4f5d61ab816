package router

import (
	"net/http"

	"mini-storefront/internal/handler"
	"mini-storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Wishlist *handler.WishlistHandler
	Session  *handler.SessionHandler
	Checkout *handler.CheckoutHandler

	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("GET /api/products", h.Products.List)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)
	mux.HandleFunc("GET /api/categories", h.Products.Categories)

	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{productId}", h.Cart.UpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.Cart.RemoveItem)
	mux.HandleFunc("PUT /api/cart/open", h.Cart.SetOpen)
	mux.HandleFunc("POST /api/cart/toggle", h.Cart.Toggle)

	mux.HandleFunc("GET /api/wishlist", h.Wishlist.Get)
	mux.HandleFunc("POST /api/wishlist", h.Wishlist.Add)
	mux.HandleFunc("DELETE /api/wishlist", h.Wishlist.Clear)
	mux.HandleFunc("GET /api/wishlist/{productId}", h.Wishlist.Contains)
	mux.HandleFunc("DELETE /api/wishlist/{productId}", h.Wishlist.Remove)

	mux.HandleFunc("GET /api/session", h.Session.Get)
	mux.HandleFunc("POST /api/session/login", h.Session.Login)
	mux.HandleFunc("POST /api/session/logout", h.Session.Logout)
	mux.HandleFunc("POST /api/session/dark-mode", h.Session.ToggleDarkMode)

	mux.HandleFunc("GET /api/checkout/summary", h.Checkout.Summary)
	mux.HandleFunc("POST /api/checkout", h.Checkout.Checkout)
	mux.HandleFunc("GET /api/orders/{id}", h.Checkout.GetOrder)

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
