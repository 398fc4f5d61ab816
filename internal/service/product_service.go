package service

import (
	"context"
	"fmt"
	"time"

	"mini-storefront/internal/catalog"
	"mini-storefront/internal/filter"
	"mini-storefront/internal/metrics"
	"mini-storefront/internal/model"

	"github.com/rs/zerolog"
)

// productService implements ProductService over an in-memory catalogue.
type productService struct {
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(c *catalog.Catalog, m *metrics.Metrics, logger zerolog.Logger) ProductService {
	return &productService{
		catalog: c,
		metrics: m,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// List validates criteria and runs the filter pipeline over the catalogue.
func (s *productService) List(ctx context.Context, criteria model.FilterCriteria) ([]model.Product, error) {
	if err := model.Validate(criteria); err != nil {
		s.logger.Debug().Err(err).Msg("rejected filter criteria")
		return nil, model.NewDomainError(model.ErrCodeInvalidCriteria, fmt.Sprintf("Filter criteria are invalid: %v", err))
	}

	start := time.Now()
	products := filter.Apply(s.catalog.Products, criteria)
	elapsed := time.Since(start)

	s.metrics.ObserveFilter(elapsed, len(products))
	s.logger.Debug().
		Str("category", criteria.Category).
		Str("search", criteria.Search).
		Str("sort_by", string(criteria.SortBy)).
		Bool("in_stock_only", criteria.InStockOnly).
		Int("count", len(products)).
		Dur("elapsed", elapsed).
		Msg("filtered products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, ok := s.catalog.Lookup(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return &product, nil
}

// Categories returns the category labels in catalogue order.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.catalog.Categories...), nil
}
