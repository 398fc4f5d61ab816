package store

import (
	"slices"

	"mini-storefront/internal/model"
)

// AddToWishlist appends p unless a product with the same id is already saved.
func (s *Store) AddToWishlist(p model.Product) []model.Product {
	return s.mutate("add_to_wishlist", func(st *State) {
		if !containsProduct(st.Wishlist, p.ID) {
			st.Wishlist = append(st.Wishlist, p.Clone())
		}
	}).Wishlist
}

// RemoveFromWishlist drops the product with productID, if present.
func (s *Store) RemoveFromWishlist(productID string) []model.Product {
	return s.mutate("remove_from_wishlist", func(st *State) {
		st.Wishlist = slices.DeleteFunc(st.Wishlist, func(p model.Product) bool {
			return p.ID == productID
		})
	}).Wishlist
}

// ClearWishlist empties the wishlist.
func (s *Store) ClearWishlist() []model.Product {
	return s.mutate("clear_wishlist", func(st *State) {
		st.Wishlist = []model.Product{}
	}).Wishlist
}

// IsInWishlist reports whether productID is saved.
func (s *Store) IsInWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsProduct(s.state.Wishlist, productID)
}

// Wishlist returns a copy of the saved products in insertion order.
func (s *Store) Wishlist() []model.Product {
	return s.State().Wishlist
}

func containsProduct(products []model.Product, productID string) bool {
	return slices.ContainsFunc(products, func(p model.Product) bool {
		return p.ID == productID
	})
}
