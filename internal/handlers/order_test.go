package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfhome_back_end/internal/checkout"
	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

type mockOrderStore struct {
	created   *models.Order
	byNumber  map[string]*models.Order
	bySession map[string][]models.Order
	createErr error
}

func (m *mockOrderStore) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *o
	created.ID = 42
	m.created = &created
	return &created, nil
}

func (m *mockOrderStore) FindByOrderNumber(_ context.Context, n string) (*models.Order, error) {
	o, ok := m.byNumber[n]
	if !ok {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderStore) FindBySession(_ context.Context, sessionID string) ([]models.Order, error) {
	return m.bySession[sessionID], nil
}

func orderRouter(orders *mockOrderStore, carts *mockCartStore, products *mockProductFinder) *gin.Engine {
	h := NewOrderHandler(orders, carts, checkout.NewAssembler(products))
	h.notify = nil
	r := gin.New()
	r.POST("/api/orders", h.Create)
	r.GET("/api/orders", h.ListBySession)
	r.GET("/api/orders/:orderNumber", h.GetByNumber)
	return r
}

func customerBody() gin.H {
	return gin.H{
		"full_name": "Marie Dupont",
		"email":     "marie@example.com",
		"phone":     "0612345678",
		"address":   "12 rue des Lilas",
		"city":      "Lyon",
	}
}

func TestCreateOrderFromEmptyCart(t *testing.T) {
	r := orderRouter(&mockOrderStore{}, &mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodPost, "/api/orders", customerBody(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Cart is empty", body["message"])
}

func TestCreateOrderFromCart(t *testing.T) {
	orders := &mockOrderStore{}
	carts := &mockCartStore{items: []models.CartItemDetail{
		{CartItemID: 1, ProductID: 7, Name: "Vase", Price: decimal.RequireFromString("20.00"), Quantity: 2},
		{CartItemID: 2, ProductID: 8, Name: "Bougie", Price: decimal.RequireFromString("15.00"), Quantity: 1},
	}}
	r := orderRouter(orders, carts, &mockProductFinder{})

	w := performJSON(r, http.MethodPost, "/api/orders", customerBody(),
		map[string]string{"x-session-id": "sess-abc"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Marie Dupont", data["customer_name"])
	assert.Equal(t, "pending", data["status"])
	assert.Regexp(t, `^ORD-`, data["order_number"])

	// 55 + 0 livraison + 6.05 de taxe
	require.NotNil(t, orders.created)
	assert.True(t, orders.created.TotalAmount.Equal(decimal.RequireFromString("61.05")))

	// Le panier est vidé après persistance.
	assert.True(t, carts.cleared)
}

func TestCreateOrderFromCartMissingFields(t *testing.T) {
	carts := &mockCartStore{items: []models.CartItemDetail{
		{CartItemID: 1, ProductID: 7, Name: "Vase", Price: decimal.RequireFromString("20.00"), Quantity: 1},
	}}
	r := orderRouter(&mockOrderStore{}, carts, &mockProductFinder{})

	w := performJSON(r, http.MethodPost, "/api/orders", gin.H{"full_name": "Marie"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	required := body["required"].([]any)
	assert.ElementsMatch(t, []any{"phone", "address"}, required)
	assert.False(t, carts.cleared)
}

func TestCreateOrderDirect(t *testing.T) {
	orders := &mockOrderStore{}
	products := &mockProductFinder{products: map[int64]*models.Product{
		7: {ID: 7, Name: "Miroir doré", Price: decimal.RequireFromString("30.00")},
	}}
	carts := &mockCartStore{}
	r := orderRouter(orders, carts, products)

	payload := gin.H{
		"customer": customerBody(),
		"items": []gin.H{
			// Prix client mensonger, ignoré au profit du catalogue.
			{"product_id": 7, "quantity": 2, "unit_price": "0.01"},
		},
	}
	w := performJSON(r, http.MethodPost, "/api/orders", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotNil(t, orders.created)
	assert.True(t, orders.created.Subtotal.Equal(decimal.RequireFromString("60.00")))
	assert.True(t, orders.created.ShippingFee.IsZero())

	// Chemin direct : le panier n'est pas touché.
	assert.False(t, carts.cleared)
}

func TestCreateOrderDirectRequiresEmail(t *testing.T) {
	products := &mockProductFinder{products: map[int64]*models.Product{
		7: {ID: 7, Name: "Miroir", Price: decimal.RequireFromString("30.00")},
	}}
	r := orderRouter(&mockOrderStore{}, &mockCartStore{}, products)

	cust := customerBody()
	delete(cust, "email")
	payload := gin.H{
		"customer": cust,
		"items":    []gin.H{{"product_id": 7, "quantity": 1}},
	}
	w := performJSON(r, http.MethodPost, "/api/orders", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["required"], "email")
}

func TestGetOrderByNumber(t *testing.T) {
	orders := &mockOrderStore{byNumber: map[string]*models.Order{
		"ORD-20260901120000-ABCD1234": {ID: 1, OrderNumber: "ORD-20260901120000-ABCD1234", Status: models.StatusShipped},
	}}
	r := orderRouter(orders, &mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/orders/ORD-20260901120000-ABCD1234", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "shipped", data["status"])
}

func TestGetOrderByNumberNotFound(t *testing.T) {
	r := orderRouter(&mockOrderStore{}, &mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/orders/ORD-INCONNU", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersWithoutSession(t *testing.T) {
	r := orderRouter(&mockOrderStore{}, &mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/orders", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, []any{}, body["data"])
}

func TestListOrdersBySession(t *testing.T) {
	orders := &mockOrderStore{bySession: map[string][]models.Order{
		"sess-abc": {{ID: 1, OrderNumber: "ORD-1"}, {ID: 2, OrderNumber: "ORD-2"}},
	}}
	r := orderRouter(orders, &mockCartStore{}, &mockProductFinder{})

	w := performJSON(r, http.MethodGet, "/api/orders", nil, map[string]string{"x-session-id": "sess-abc"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, body["data"], 2)
}
