package handler

import (
	"net/http"

	"mini-storefront/internal/model"
	"mini-storefront/internal/service"

	"github.com/rs/zerolog"
)

// WishlistHandler exposes the session wishlist.
type WishlistHandler struct {
	session  Session
	products service.ProductService
	logger   zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(session Session, products service.ProductService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		session:  session,
		products: products,
		logger:   logger.With().Str("handler", "wishlist").Logger(),
	}
}

type wishlistResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

type wishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// Get handles GET /api/wishlist.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeWishlist(w, h.session.Wishlist())
}

// Add handles POST /api/wishlist. Adding a product twice keeps one entry.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeWishlist(w, h.session.AddToWishlist(*product))
}

// Contains handles GET /api/wishlist/{productId}.
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"inWishlist": h.session.IsInWishlist(r.PathValue("productId")),
	})
}

// Remove handles DELETE /api/wishlist/{productId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	writeWishlist(w, h.session.RemoveFromWishlist(r.PathValue("productId")))
}

// Clear handles DELETE /api/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	writeWishlist(w, h.session.ClearWishlist())
}

func writeWishlist(w http.ResponseWriter, products []model.Product) {
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, wishlistResponse{Products: products, Count: len(products)})
}
