package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mfhome_back_end/internal/models"
)

func TestOrderConfirmationHTMLEscapesCustomerContent(t *testing.T) {
	// Nom client et noms de produits viennent du formulaire de checkout :
	// tout balisage doit arriver neutralisé dans le HTML du mail.
	order := models.Order{
		OrderNumber:  "ORD-20260901120000-AB12CD34",
		CustomerName: `Marie <script>alert("x")</script>`,
		Subtotal:     decimal.RequireFromString("29.97"),
		ShippingFee:  decimal.RequireFromString("5.00"),
		TaxAmount:    decimal.RequireFromString("3.30"),
		TotalAmount:  decimal.RequireFromString("38.27"),
		Items: []models.OrderItem{
			{
				ProductName: `Vase <img src=x onerror=alert(1)> "déco"`,
				Quantity:    3,
				UnitPrice:   decimal.RequireFromString("9.99"),
				TotalPrice:  decimal.RequireFromString("29.97"),
			},
		},
	}

	body := orderConfirmationHTML(order)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img src=x")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;")
	assert.Contains(t, body, "&#34;déco&#34;")
}

func TestOrderConfirmationHTMLRendersAmounts(t *testing.T) {
	order := models.Order{
		OrderNumber:  "ORD-20260901120000-AB12CD34",
		CustomerName: "Marie Dupont",
		Subtotal:     decimal.RequireFromString("55.00"),
		ShippingFee:  decimal.Zero,
		TaxAmount:    decimal.RequireFromString("6.05"),
		TotalAmount:  decimal.RequireFromString("61.05"),
		Items: []models.OrderItem{
			{
				ProductName: "Coussin lin",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("27.50"),
				TotalPrice:  decimal.RequireFromString("55.00"),
			},
		},
	}

	body := orderConfirmationHTML(order)

	assert.Contains(t, body, "ORD-20260901120000-AB12CD34")
	assert.Contains(t, body, "Marie Dupont")
	assert.Contains(t, body, "Coussin lin")
	for _, amount := range []string{"55.00", "0.00", "6.05", "61.05", "27.50"} {
		assert.True(t, strings.Contains(body, amount), "montant %s absent du mail", amount)
	}
}
