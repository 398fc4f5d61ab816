package model

// CategoryAll is the wildcard category selector.
const CategoryAll = "All"

// SortKey selects the ordering of a filtered product list.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest"
	SortRating    SortKey = "rating"
	SortPopular   SortKey = "popular"
)

// PriceRange is an inclusive [Min, Max] price window.
// The zero value means no price bound.
type PriceRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// IsZero reports whether r is the unbounded zero range.
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// FilterCriteria is the view layer's current filter, search and sort selection.
// Zero fields do not filter: an empty Category matches every category and a
// zero PriceRange matches every price. DefaultCriteria gives the storefront's
// starting selection.
type FilterCriteria struct {
	Category    string     `json:"category"`
	Search      string     `json:"search"`
	PriceRange  PriceRange `json:"priceRange"`
	SortBy      SortKey    `json:"sortBy" validate:"omitempty,oneof=price-low price-high newest rating popular"`
	InStockOnly bool       `json:"inStockOnly"`
}

// DefaultCriteria returns the criteria a fresh storefront view starts with.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:    CategoryAll,
		PriceRange:  PriceRange{Min: 0, Max: 100},
		SortBy:      SortPopular,
		InStockOnly: true,
	}
}
