package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus : énumération fermée des statuts de commande. Toute valeur
// hors de cet ensemble est rejetée à la frontière HTTP.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus valide une valeur reçue du client.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("statut de commande inconnu: %q", s)
}

// Order : enregistrement post-achat. Immuable après création, à l'exception
// du statut. Les montants sont figés à l'assemblage et ne sont jamais
// recalculés depuis le catalogue.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	SessionID       *string         `json:"-"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   *string         `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	CustomerCity    string          `json:"customer_city"`
	Notes           string          `json:"notes,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`

	// Champs agrégés des listes admin
	ItemsCount   int    `json:"items_count,omitempty"`
	ProductNames string `json:"product_names,omitempty"`
}

// OrderItem : snapshot figé d'une ligne de commande. ProductID peut devenir
// nul si le produit est supprimé du catalogue plus tard — le nom et le prix
// copiés ici restent la vérité historique.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   *int64          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// DashboardStats : statistiques du tableau de bord admin. Chaque champ se
// dégrade à zéro si sa sous-requête échoue.
type DashboardStats struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int64           `json:"pending_orders"`
	TodayOrders   int64           `json:"today_orders"`
	RecentOrders  []Order         `json:"recent_orders"`
	TopProducts   []TopProduct    `json:"top_products"`
}

type TopProduct struct {
	Name          string          `json:"name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
