package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

type fakeCatalog struct {
	products map[int64]*models.Product
}

func (f *fakeCatalog) FindByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validCustomer() Customer {
	return Customer{
		FullName: "Marie Dupont",
		Email:    "marie@example.com",
		Phone:    "0612345678",
		Address:  "12 rue des Lilas",
		City:     "Lyon",
	}
}

func cartItem(productID int64, name, price string, qty int) models.CartItemDetail {
	return models.CartItemDetail{
		CartItemID: productID,
		ProductID:  productID,
		Name:       name,
		Price:      dec(price),
		Quantity:   qty,
	}
}

func TestFromCartPricing(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})

	tests := []struct {
		name     string
		items    []models.CartItemDetail
		subtotal string
		shipping string
		tax      string
		total    string
	}{
		{
			name: "au-dessus du seuil, livraison offerte",
			items: []models.CartItemDetail{
				cartItem(1, "Vase", "20.00", 2),
				cartItem(2, "Bougie", "15.00", 1),
			},
			subtotal: "55.00", shipping: "0", tax: "6.05", total: "61.05",
		},
		{
			name:     "sous le seuil, forfait de livraison",
			items:    []models.CartItemDetail{cartItem(1, "Bougie", "10.00", 1)},
			subtotal: "10.00", shipping: "5", tax: "1.10", total: "16.10",
		},
		{
			name:     "exactement au seuil, livraison offerte",
			items:    []models.CartItemDetail{cartItem(1, "Lampe", "50.00", 1)},
			subtotal: "50.00", shipping: "0", tax: "5.50", total: "55.50",
		},
		{
			name:     "juste sous le seuil",
			items:    []models.CartItemDetail{cartItem(1, "Lampe", "49.99", 1)},
			subtotal: "49.99", shipping: "5", tax: "5.50", total: "60.49",
		},
		{
			name:     "taxe arrondie au centime",
			items:    []models.CartItemDetail{cartItem(1, "Coussin", "9.99", 3)},
			subtotal: "29.97", shipping: "5", tax: "3.30", total: "38.27",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := a.FromCart(tt.items, validCustomer(), "sess-1")
			require.NoError(t, err)

			assert.True(t, order.Subtotal.Equal(dec(tt.subtotal)), "subtotal = %s", order.Subtotal)
			assert.True(t, order.ShippingFee.Equal(dec(tt.shipping)), "shipping = %s", order.ShippingFee)
			assert.True(t, order.TaxAmount.Equal(dec(tt.tax)), "tax = %s", order.TaxAmount)
			assert.True(t, order.TotalAmount.Equal(dec(tt.total)), "total = %s", order.TotalAmount)
			assert.Equal(t, models.StatusPending, order.Status)
		})
	}
}

func TestFromCartEmpty(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})

	_, err := a.FromCart(nil, validCustomer(), "sess-1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Cart is empty", ve.Message)
}

func TestFromCartMissingFields(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []models.CartItemDetail{cartItem(1, "Vase", "20.00", 1)}

	_, err := a.FromCart(items, Customer{}, "sess-1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"full_name", "phone", "address"}, ve.Fields)
}

func TestFromCartEmailOptional(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []models.CartItemDetail{cartItem(1, "Vase", "20.00", 1)}

	cust := validCustomer()
	cust.Email = ""
	order, err := a.FromCart(items, cust, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, order.CustomerEmail)
}

func TestFromCartStampsSession(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []models.CartItemDetail{cartItem(1, "Vase", "20.00", 1)}

	order, err := a.FromCart(items, validCustomer(), "sess-42")
	require.NoError(t, err)
	require.NotNil(t, order.SessionID)
	assert.Equal(t, "sess-42", *order.SessionID)
}

func TestFromCartDefaultsCity(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []models.CartItemDetail{cartItem(1, "Vase", "20.00", 1)}

	cust := validCustomer()
	cust.City = ""
	order, err := a.FromCart(items, cust, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", order.CustomerCity)
}

func TestFromSubmissionRepricesFromCatalog(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]*models.Product{
		7: {ID: 7, Name: "Miroir doré", Price: dec("30.00")},
	}}
	a := NewAssembler(catalog)

	// Le client annonce un prix mensonger : il doit être ignoré.
	items := []SubmittedItem{{
		ProductID:  7,
		Quantity:   2,
		UnitPrice:  dec("0.01"),
		TotalPrice: dec("0.02"),
	}}

	order, err := a.FromSubmission(context.Background(), items, validCustomer(), "")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(dec("30.00")))
	assert.True(t, order.Items[0].TotalPrice.Equal(dec("60.00")))
	assert.Equal(t, "Miroir doré", order.Items[0].ProductName)
	assert.True(t, order.Subtotal.Equal(dec("60.00")))
	assert.True(t, order.ShippingFee.IsZero())
	assert.Nil(t, order.SessionID)
}

func TestFromSubmissionEmailRequired(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []SubmittedItem{{ProductID: 7, Quantity: 1}}

	cust := validCustomer()
	cust.Email = ""
	_, err := a.FromSubmission(context.Background(), items, cust, "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
}

func TestFromSubmissionUnknownProduct(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []SubmittedItem{{ProductID: 99, Quantity: 1}}

	_, err := a.FromSubmission(context.Background(), items, validCustomer(), "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "99")
}

func TestFromSubmissionMissingProductID(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})
	items := []SubmittedItem{{Quantity: 1}}

	_, err := a.FromSubmission(context.Background(), items, validCustomer(), "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"product_id"}, ve.Fields)
}

func TestFromSubmissionEmpty(t *testing.T) {
	a := NewAssembler(&fakeCatalog{})

	_, err := a.FromSubmission(context.Background(), nil, validCustomer(), "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestFromSubmissionRejectsZeroQuantity(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]*models.Product{
		7: {ID: 7, Name: "Miroir", Price: dec("30.00")},
	}}
	a := NewAssembler(catalog)

	_, err := a.FromSubmission(context.Background(), []SubmittedItem{{ProductID: 7, Quantity: 0}}, validCustomer(), "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

type fakeOrderCreator struct {
	conflicts int
	calls     int
	numbers   []string
	fail      error
}

func (f *fakeOrderCreator) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	f.calls++
	f.numbers = append(f.numbers, o.OrderNumber)
	if f.fail != nil {
		return nil, f.fail
	}
	if f.calls <= f.conflicts {
		return nil, store.ErrConflict
	}
	created := *o
	created.ID = 1
	return &created, nil
}

func TestPlaceOrderRetriesOnConflict(t *testing.T) {
	creator := &fakeOrderCreator{conflicts: 2}
	order := &models.Order{OrderNumber: GenerateOrderNumber()}

	created, err := PlaceOrder(context.Background(), creator, order)
	require.NoError(t, err)
	assert.Equal(t, 3, creator.calls)

	// Chaque tentative porte un numéro fraîchement régénéré.
	assert.NotEqual(t, creator.numbers[0], creator.numbers[1])
	assert.NotEqual(t, creator.numbers[1], creator.numbers[2])
	assert.Equal(t, creator.numbers[2], created.OrderNumber)
}

func TestPlaceOrderGivesUpAfterMaxAttempts(t *testing.T) {
	creator := &fakeOrderCreator{conflicts: 100}
	order := &models.Order{OrderNumber: GenerateOrderNumber()}

	_, err := PlaceOrder(context.Background(), creator, order)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, maxCreateAttempts, creator.calls)
}

func TestPlaceOrderPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connexion perdue")
	creator := &fakeOrderCreator{fail: boom}
	order := &models.Order{OrderNumber: GenerateOrderNumber()}

	_, err := PlaceOrder(context.Background(), creator, order)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, creator.calls)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	n := GenerateOrderNumber()
	assert.Regexp(t, `^ORD-\d{14}-[0-9A-F]{8}$`, n)
	assert.NotEqual(t, n, GenerateOrderNumber())
}
