package handler

import (
	"net/http"

	"mini-storefront/internal/model"
	"mini-storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler exposes the session cart.
type CartHandler struct {
	session  Session
	products service.ProductService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(session Session, products service.ProductService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		session:  session,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

type cartResponse struct {
	model.CartState
	IsOpen bool `json:"isOpen"`
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.session.State()
	writeJSON(w, http.StatusOK, cartResponse{CartState: state.Cart, IsOpen: state.IsCartOpen})
}

// AddItem handles POST /api/cart/items. The product is resolved from the catalogue.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.session.AddItem(*product)
	h.writeCart(w)
}

// UpdateQuantity handles PUT /api/cart/items/{productId}.
// A quantity of zero or less removes the line; an unknown product is a no-op.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.session.UpdateQuantity(r.PathValue("productId"), *req.Quantity)
	h.writeCart(w)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.session.RemoveItem(r.PathValue("productId"))
	h.writeCart(w)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.session.ClearCart()
	h.writeCart(w)
}

// SetOpen handles PUT /api/cart/open.
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req cartOpenRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.session.SetCartOpen(*req.Open)
	h.writeCart(w)
}

// Toggle handles POST /api/cart/toggle.
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.session.ToggleCart()
	h.writeCart(w)
}

func (h *CartHandler) writeCart(w http.ResponseWriter) {
	state := h.session.State()
	writeJSON(w, http.StatusOK, cartResponse{CartState: state.Cart, IsOpen: state.IsCartOpen})
}
