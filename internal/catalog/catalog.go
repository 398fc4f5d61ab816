// Package catalog loads the immutable product catalogue the storefront sells from.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"mini-storefront/internal/model"
)

// ErrDuplicateProduct is returned by Validate when two products share an id.
var ErrDuplicateProduct = errors.New("duplicate product id")

// Catalog is the fixed product list and category labels supplied at start-up.
type Catalog struct {
	Products   []model.Product `json:"products"`
	Categories []string        `json:"categories"`

	index map[string]int
}

// Loader defines the interface for loading a catalogue.
type Loader interface {
	// Load reads the catalogue stored at location.
	Load(ctx context.Context, location string) (*Catalog, error)
}

// New builds a catalogue over products. When categories is empty the labels
// are derived from the products in first-appearance order, led by "All".
func New(products []model.Product, categories []string) *Catalog {
	if products == nil {
		products = []model.Product{}
	}
	if len(categories) == 0 {
		categories = deriveCategories(products)
	}

	c := &Catalog{
		Products:   products,
		Categories: categories,
		index:      make(map[string]int, len(products)),
	}
	for i, p := range products {
		if _, ok := c.index[p.ID]; !ok {
			c.index[p.ID] = i
		}
	}
	return c
}

// Validate checks every product's fields and that ids are unique.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Products))
	for i, p := range c.Products {
		if err := model.Validate(p); err != nil {
			return fmt.Errorf("product %d (%q): %w", i, p.ID, err)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	return c.Products[i], true
}

func deriveCategories(products []model.Product) []string {
	categories := []string{model.CategoryAll}
	seen := map[string]struct{}{model.CategoryAll: {}}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// decode reads a JSON catalogue document and validates it.
func decode(r io.Reader) (*Catalog, error) {
	var doc struct {
		Categories []string        `json:"categories"`
		Products   []model.Product `json:"products"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	c := New(doc.Products, doc.Categories)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalogue: %w", err)
	}
	return c, nil
}
