package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- mocks partagés du paquet ---

type mockCartStore struct {
	cart    *models.Cart
	items   []models.CartItemDetail
	addErr  error
	updErr  error
	cleared bool

	lastAddProductID int64
	lastAddQuantity  int
	lastUpdQuantity  int
}

func (m *mockCartStore) GetOrCreate(_ context.Context, sessionID string) (*models.Cart, error) {
	if m.cart == nil {
		m.cart = &models.Cart{ID: 1, SessionID: sessionID}
	}
	return m.cart, nil
}

func (m *mockCartStore) ListItems(_ context.Context, _ int64) ([]models.CartItemDetail, error) {
	return m.items, nil
}

func (m *mockCartStore) AddItem(_ context.Context, _, productID int64, quantity int) (*models.CartItem, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.lastAddProductID = productID
	m.lastAddQuantity = quantity
	return &models.CartItem{ID: 10, CartID: 1, ProductID: productID, Quantity: quantity}, nil
}

func (m *mockCartStore) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) (*models.CartItem, bool, error) {
	if m.updErr != nil {
		return nil, false, m.updErr
	}
	m.lastUpdQuantity = quantity
	if quantity < 1 {
		return nil, true, nil
	}
	return &models.CartItem{ID: itemID, CartID: 1, Quantity: quantity}, false, nil
}

func (m *mockCartStore) RemoveItem(_ context.Context, _ int64) error { return nil }

func (m *mockCartStore) Clear(_ context.Context, _ int64) error {
	m.cleared = true
	return nil
}

type mockProductFinder struct {
	products map[int64]*models.Product
}

func (m *mockProductFinder) FindByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func performJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func cartRouter(carts *mockCartStore, products *mockProductFinder) *gin.Engine {
	h := NewCartHandler(carts, products)
	r := gin.New()
	r.GET("/api/cart", h.Get)
	r.POST("/api/cart/items", h.AddItem)
	r.PUT("/api/cart/items/:itemId", h.UpdateItem)
	r.DELETE("/api/cart/items/:itemId", h.RemoveItem)
	r.DELETE("/api/cart/clear", h.Clear)
	return r
}

func TestCartGetCreatesSession(t *testing.T) {
	r := cartRouter(&mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/cart", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Sans session entrante, une session invitée est posée en cookie.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCartGetReusesHeaderSession(t *testing.T) {
	carts := &mockCartStore{}
	r := cartRouter(carts, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/cart", nil, map[string]string{"x-session-id": "sess-abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-abc", carts.cart.SessionID)
	assert.Empty(t, w.Result().Cookies())
}

func TestCartAddItemRequiresProductID(t *testing.T) {
	r := cartRouter(&mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodPost, "/api/cart/items", gin.H{"quantity": 2}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	r := cartRouter(&mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodPost, "/api/cart/items", gin.H{"product_id": 99}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	carts := &mockCartStore{}
	products := &mockProductFinder{products: map[int64]*models.Product{7: {ID: 7, Name: "Vase"}}}
	r := cartRouter(carts, products)

	w := performJSON(r, http.MethodPost, "/api/cart/items", gin.H{"product_id": 7}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), carts.lastAddProductID)
	assert.Equal(t, 1, carts.lastAddQuantity)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestCartUpdateItemRequiresQuantity(t *testing.T) {
	r := cartRouter(&mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodPut, "/api/cart/items/10", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartUpdateItemZeroDeletes(t *testing.T) {
	carts := &mockCartStore{}
	r := cartRouter(carts, &mockProductFinder{})

	w := performJSON(r, http.MethodPut, "/api/cart/items/10", gin.H{"quantity": 0}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["deleted"])
}

func TestCartUpdateItemNotFound(t *testing.T) {
	carts := &mockCartStore{updErr: store.ErrNotFound}
	r := cartRouter(carts, &mockProductFinder{})

	w := performJSON(r, http.MethodPut, "/api/cart/items/10", gin.H{"quantity": 3}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartClear(t *testing.T) {
	carts := &mockCartStore{}
	r := cartRouter(carts, &mockProductFinder{})

	w := performJSON(r, http.MethodDelete, "/api/cart/clear", nil, map[string]string{"x-session-id": "sess-abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, carts.cleared)
}
