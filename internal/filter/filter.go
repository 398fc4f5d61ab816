// Package filter turns a product catalogue and the current criteria into the
// visible, ordered product list.
package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"mini-storefront/internal/model"
)

// Apply returns the products matching criteria, ordered by criteria.SortBy.
// The result is a new slice of cloned products; products is neither reordered
// nor modified, and nothing in the result points into it.
// Products with equal sort keys keep their catalogue order.
func Apply(products []model.Product, criteria model.FilterCriteria) []model.Product {
	query := strings.ToLower(criteria.Search)

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matches(p, criteria, query) {
			result = append(result, p.Clone())
		}
	}

	slices.SortStableFunc(result, comparator(criteria.SortBy))

	return result
}

// matches reports whether p passes every filter in criteria.
// query is the lower-cased search string.
func matches(p model.Product, criteria model.FilterCriteria, query string) bool {
	if criteria.Category != "" && criteria.Category != model.CategoryAll && criteria.Category != p.Category {
		return false
	}

	if query != "" &&
		!strings.Contains(strings.ToLower(p.Name), query) &&
		!strings.Contains(strings.ToLower(p.Description), query) {
		return false
	}

	if !criteria.PriceRange.IsZero() &&
		(p.Price < criteria.PriceRange.Min || p.Price > criteria.PriceRange.Max) {
		return false
	}

	// A product without a stock count passes the in-stock filter.
	if criteria.InStockOnly && p.Stock != nil && *p.Stock <= 0 {
		return false
	}

	return true
}

func comparator(key model.SortKey) func(a, b model.Product) int {
	switch key {
	case model.SortPriceLow:
		return func(a, b model.Product) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case model.SortPriceHigh:
		return func(a, b model.Product) int {
			return cmp.Compare(b.Price, a.Price)
		}
	case model.SortNewest:
		return func(a, b model.Product) int {
			return createdAt(b).Compare(createdAt(a))
		}
	case model.SortRating:
		return func(a, b model.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		}
	default:
		return func(a, b model.Product) int {
			return cmp.Compare(popularity(b), popularity(a))
		}
	}
}

// createdAt treats a missing timestamp as the oldest possible.
func createdAt(p model.Product) time.Time {
	if p.CreatedAt == nil {
		return time.Time{}
	}
	return *p.CreatedAt
}

func popularity(p model.Product) float64 {
	if p.Popularity == nil {
		return 0
	}
	return *p.Popularity
}
