package store

import (
	"slices"

	"mini-storefront/internal/model"
)

// AddItem adds one unit of p to the cart. A product already in the cart has
// its quantity incremented in place; otherwise it is appended with quantity 1.
func (s *Store) AddItem(p model.Product) model.CartState {
	return s.mutate("add_item", func(st *State) {
		items := st.Cart.Items
		if i := st.Cart.Find(p.ID); i >= 0 {
			items[i].Quantity++
		} else {
			items = append(items, model.CartItem{Product: p.Clone(), Quantity: 1})
		}
		st.Cart = model.NewCartState(items)
	}).Cart
}

// RemoveItem deletes the line for productID. Unknown ids are a no-op.
func (s *Store) RemoveItem(productID string) model.CartState {
	return s.mutate("remove_item", func(st *State) {
		removeLine(st, productID)
	}).Cart
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line; an id not in the cart is a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) model.CartState {
	return s.mutate("update_quantity", func(st *State) {
		if quantity <= 0 {
			removeLine(st, productID)
			return
		}
		if i := st.Cart.Find(productID); i >= 0 {
			st.Cart.Items[i].Quantity = quantity
			st.Cart = model.NewCartState(st.Cart.Items)
		}
	}).Cart
}

// ClearCart empties the cart.
func (s *Store) ClearCart() model.CartState {
	return s.mutate("clear_cart", func(st *State) {
		st.Cart = model.NewCartState(nil)
	}).Cart
}

// RemoveOrdered subtracts the ordered quantities from the cart, matching lines
// by product id. Lines that reach zero are removed; ids not in the cart are
// ignored. Anything added since the order was taken stays in the cart.
func (s *Store) RemoveOrdered(ordered []model.CartItem) model.CartState {
	return s.mutate("remove_ordered", func(st *State) {
		items := st.Cart.Items
		for _, o := range ordered {
			if i := st.Cart.Find(o.Product.ID); i >= 0 {
				items[i].Quantity -= o.Quantity
			}
		}
		items = slices.DeleteFunc(items, func(item model.CartItem) bool {
			return item.Quantity <= 0
		})
		st.Cart = model.NewCartState(items)
	}).Cart
}

// SetCartOpen sets the cart panel visibility.
func (s *Store) SetCartOpen(open bool) bool {
	return s.mutate("set_cart_open", func(st *State) {
		st.IsCartOpen = open
	}).IsCartOpen
}

// ToggleCart flips the cart panel visibility and returns the new value.
func (s *Store) ToggleCart() bool {
	return s.mutate("toggle_cart", func(st *State) {
		st.IsCartOpen = !st.IsCartOpen
	}).IsCartOpen
}

func removeLine(st *State, productID string) {
	items := slices.DeleteFunc(st.Cart.Items, func(item model.CartItem) bool {
		return item.Product.ID == productID
	})
	st.Cart = model.NewCartState(items)
}
