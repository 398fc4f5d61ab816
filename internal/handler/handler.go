package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mini-storefront/internal/middleware"
	"mini-storefront/internal/model"
	"mini-storefront/internal/store"

	"github.com/rs/zerolog"
)

// Session is the part of the session store the HTTP layer drives.
type Session interface {
	State() store.State
	Cart() model.CartState
	AddItem(p model.Product) model.CartState
	RemoveItem(productID string) model.CartState
	UpdateQuantity(productID string, quantity int) model.CartState
	ClearCart() model.CartState
	SetCartOpen(open bool) bool
	ToggleCart() bool

	Wishlist() []model.Product
	AddToWishlist(p model.Product) []model.Product
	RemoveFromWishlist(productID string) []model.Product
	ClearWishlist() []model.Product
	IsInWishlist(productID string) bool

	Login(ctx context.Context, email, password string) bool
	Logout()
	User() *model.User
	ToggleDarkMode() store.Theme
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a standardised error body carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Int("status", status).Str("path", r.URL.Path).Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationIDFromContext(r.Context()),
	})
}

// writeServiceError maps a service error onto an HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeInternalError, "request cancelled", logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected service error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeValidation, model.ErrCodeInvalidCriteria:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeCheckoutInProgress:
		return http.StatusConflict
	case model.ErrCodeLoginFailed, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
