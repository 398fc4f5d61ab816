package store

import (
	"encoding/json"
	"fmt"

	"mini-storefront/internal/model"
)

const snapshotVersion = 0

// snapshot is the persisted envelope: {"state": {...}, "version": 0}.
type snapshot struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	Items      []model.CartItem `json:"items"`
	Total      float64          `json:"total"`
	ItemCount  int              `json:"itemCount"`
	IsCartOpen bool             `json:"isCartOpen"`
	Wishlist   []model.Product  `json:"wishlist"`
	User       *model.User      `json:"user"`
	IsDarkMode bool             `json:"isDarkMode"`
}

func encodeSnapshot(st State) ([]byte, error) {
	return json.Marshal(snapshot{
		State: persistedState{
			Items:      st.Cart.Items,
			Total:      st.Cart.Total,
			ItemCount:  st.Cart.ItemCount,
			IsCartOpen: st.IsCartOpen,
			Wishlist:   st.Wishlist,
			User:       st.User,
			IsDarkMode: st.IsDarkMode,
		},
		Version: snapshotVersion,
	})
}

// decodeSnapshot parses a persisted envelope. Stored totals are ignored and
// recomputed from the sanitized items.
func decodeSnapshot(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return State{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	return State{
		Cart:       model.NewCartState(sanitizeItems(snap.State.Items)),
		IsCartOpen: snap.State.IsCartOpen,
		Wishlist:   sanitizeWishlist(snap.State.Wishlist),
		User:       snap.State.User,
		IsDarkMode: snap.State.IsDarkMode,
	}, nil
}

// sanitizeItems drops lines without a product id or with a non-positive
// quantity and merges repeated ids into the first occurrence.
func sanitizeItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.Product.ID == "" || item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.Product.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.Product.ID] = len(out)
		out = append(out, item)
	}

	return out
}

func sanitizeWishlist(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))

	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	return out
}
