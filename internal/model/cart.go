package model

// CartItem pairs a product with a positive quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartState is the cart contents plus the totals derived from them.
// Total and ItemCount are only ever produced by NewCartState.
type CartState struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// NewCartState builds a CartState over items, computing the derived totals.
// Total is left unrounded; rounding belongs to presentation.
func NewCartState(items []CartItem) CartState {
	state := CartState{Items: items}
	if state.Items == nil {
		state.Items = []CartItem{}
	}
	for _, item := range state.Items {
		state.Total += item.Product.Price * float64(item.Quantity)
		state.ItemCount += item.Quantity
	}
	return state
}

// Find returns the index of the item for productID, or -1.
func (c CartState) Find(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
