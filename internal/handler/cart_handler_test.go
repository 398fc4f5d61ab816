package handler

import (
	"net/http"
	"testing"

	"mini-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartLines(resp cartResponse) map[string]int {
	out := make(map[string]int, len(resp.Items))
	for _, item := range resp.Items {
		out[item.Product.ID] = item.Quantity
	}
	return out
}

func TestCartHandler_Get_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/cart", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0,"isOpen":false}`, w.Body.String())
}

func TestCartHandler_AddItem(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "Known product", body: `{"productId":"p1"}`, expectedStatus: http.StatusOK},
		{name: "Unknown product", body: `{"productId":"p999"}`, expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeProductNotFound},
		{name: "Missing productId", body: `{}`, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeValidation},
		{name: "Malformed body", body: `{"productId":1}`, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(t, http.MethodPost, "/api/cart/items", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				resp := decode[model.ErrorResponse](t, w)
				assert.Equal(t, tt.expectedCode, resp.Error)
				assert.Empty(t, env.store.Cart().Items)
				return
			}

			resp := decode[cartResponse](t, w)
			assert.Equal(t, map[string]int{"p1": 1}, cartLines(resp))
			assert.InDelta(t, 4.5, resp.Total, 1e-9)
			assert.Equal(t, 1, resp.ItemCount)
		})
	}
}

func TestCartHandler_AddSameProductTwice(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p3"}`)
	w := env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[cartResponse](t, w)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "p1", resp.Items[0].Product.ID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.InDelta(t, 12.0, resp.Total, 1e-9)
	assert.Equal(t, 3, resp.ItemCount)
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name           string
		productID      string
		body           string
		expectedStatus int
		expectedLines  map[string]int
	}{
		{name: "Set quantity", productID: "p1", body: `{"quantity":5}`, expectedStatus: http.StatusOK, expectedLines: map[string]int{"p1": 5}},
		{name: "Zero removes", productID: "p1", body: `{"quantity":0}`, expectedStatus: http.StatusOK, expectedLines: map[string]int{}},
		{name: "Negative removes", productID: "p1", body: `{"quantity":-3}`, expectedStatus: http.StatusOK, expectedLines: map[string]int{}},
		{name: "Absent product is a no-op", productID: "p3", body: `{"quantity":4}`, expectedStatus: http.StatusOK, expectedLines: map[string]int{"p1": 1}},
		{name: "Missing quantity", productID: "p1", body: `{}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)

			w := env.do(t, http.MethodPut, "/api/cart/items/"+tt.productID, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLines != nil {
				assert.Equal(t, tt.expectedLines, cartLines(decode[cartResponse](t, w)))
			}
		})
	}
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"p3"}`)

	w := env.do(t, http.MethodDelete, "/api/cart/items/p1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"p3": 1}, cartLines(decode[cartResponse](t, w)))

	w = env.do(t, http.MethodDelete, "/api/cart/items/p1", "")
	require.Equal(t, http.StatusOK, w.Code, "removing an absent line is a no-op")
	assert.Equal(t, map[string]int{"p3": 1}, cartLines(decode[cartResponse](t, w)))

	w = env.do(t, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[cartResponse](t, w)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Total)
	assert.Zero(t, resp.ItemCount)
}

func TestCartHandler_OpenFlag(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/cart/open", `{"open":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[cartResponse](t, w).IsOpen)

	w = env.do(t, http.MethodPost, "/api/cart/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[cartResponse](t, w).IsOpen)

	w = env.do(t, http.MethodPut, "/api/cart/open", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.store.State().IsCartOpen)
}
