package catalog

import (
	"testing"

	"mini-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Dark Chocolate", Price: 4.5, Category: "Choco", Rating: 4.8, InStock: true},
		{ID: "2", Name: "Cola", Price: 1.5, Category: "Drinks", Rating: 4.0, InStock: true},
		{ID: "3", Name: "Milk Chocolate", Price: 3, Category: "Choco", Rating: 4.2, InStock: true},
		{ID: "4", Name: "Kale Chips", Price: 5, Category: "Healthy", Rating: 3.9, InStock: false},
	}
}

func TestNew_DerivesCategoriesInFirstAppearanceOrder(t *testing.T) {
	c := New(testProducts(), nil)

	assert.Equal(t, []string{"All", "Choco", "Drinks", "Healthy"}, c.Categories)
}

func TestNew_KeepsSuppliedCategories(t *testing.T) {
	categories := []string{"All", "Choco", "Snacks", "Drinks", "Healthy", "Premium"}

	c := New(testProducts(), categories)

	assert.Equal(t, categories, c.Categories)
}

func TestNew_EmptyCatalog(t *testing.T) {
	c := New(nil, nil)

	assert.NotNil(t, c.Products)
	assert.Equal(t, []string{"All"}, c.Categories)
	assert.NoError(t, c.Validate())
}

func TestCatalog_Lookup(t *testing.T) {
	c := New(testProducts(), nil)

	p, ok := c.Lookup("3")
	require.True(t, ok)
	assert.Equal(t, "Milk Chocolate", p.Name)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestCatalog_Validate(t *testing.T) {
	negative := -1

	tests := []struct {
		name      string
		mutate    func(products []model.Product) []model.Product
		expectErr bool
		errIs     error
	}{
		{
			name:   "Valid catalogue",
			mutate: func(p []model.Product) []model.Product { return p },
		},
		{
			name:      "Missing id",
			mutate:    func(p []model.Product) []model.Product { p[0].ID = ""; return p },
			expectErr: true,
		},
		{
			name:      "Missing name",
			mutate:    func(p []model.Product) []model.Product { p[1].Name = ""; return p },
			expectErr: true,
		},
		{
			name:      "Negative price",
			mutate:    func(p []model.Product) []model.Product { p[2].Price = -0.01; return p },
			expectErr: true,
		},
		{
			name:      "Rating above five",
			mutate:    func(p []model.Product) []model.Product { p[0].Rating = 5.5; return p },
			expectErr: true,
		},
		{
			name:      "Negative stock",
			mutate:    func(p []model.Product) []model.Product { p[3].Stock = &negative; return p },
			expectErr: true,
		},
		{
			name: "Duplicate id",
			mutate: func(p []model.Product) []model.Product {
				p[3].ID = "1"
				return p
			},
			expectErr: true,
			errIs:     ErrDuplicateProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.mutate(testProducts()), nil)

			err := c.Validate()

			if !tt.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}
