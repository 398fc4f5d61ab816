package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"mini-storefront/internal/model"
	"mini-storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

type productListResponse struct {
	Products []model.Product      `json:"products"`
	Count    int                  `json:"count"`
	Criteria model.FilterCriteria `json:"criteria"`
}

// List handles GET /api/products. Unset query parameters take the storefront defaults.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidCriteria, err.Error(), h.logger)
		return
	}

	products, err := h.service.List(r.Context(), criteria)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Products: products,
		Count:    len(products),
		Criteria: criteria,
	})
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func criteriaFromQuery(r *http.Request) (model.FilterCriteria, error) {
	q := r.URL.Query()
	criteria := model.DefaultCriteria()

	if v := q.Get("category"); v != "" {
		criteria.Category = v
	}
	criteria.Search = strings.TrimSpace(q.Get("q"))

	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid minPrice parameter")
		}
		criteria.PriceRange.Min = f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid maxPrice parameter")
		}
		criteria.PriceRange.Max = f
	}

	if v := q.Get("sort"); v != "" {
		criteria.SortBy = model.SortKey(v)
	}

	if v := q.Get("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, fmt.Errorf("invalid inStock parameter")
		}
		criteria.InStockOnly = b
	}

	return criteria, nil
}
