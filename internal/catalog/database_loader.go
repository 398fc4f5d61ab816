package catalog

import (
	"context"
	"fmt"

	"mini-storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductSource lists every product in catalogue order.
type ProductSource interface {
	GetAll(ctx context.Context) ([]model.Product, error)
}

type databaseLoader struct {
	source ProductSource
	logger zerolog.Logger
}

// NewDatabaseLoader creates a loader that reads the catalogue from a product
// repository. Categories are always derived; location is ignored.
func NewDatabaseLoader(source ProductSource, logger zerolog.Logger) Loader {
	return &databaseLoader{
		source: source,
		logger: logger.With().Str("component", "database-catalog-loader").Logger(),
	}
}

func (l *databaseLoader) Load(ctx context.Context, _ string) (*Catalog, error) {
	products, err := l.source.GetAll(ctx)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to read products from database")
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	c := New(products, nil)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalogue: %w", err)
	}

	l.logger.Info().
		Int("products_loaded", len(c.Products)).
		Int("categories", len(c.Categories)).
		Msg("catalogue loaded from database")

	return c, nil
}
