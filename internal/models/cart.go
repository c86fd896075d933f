package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart : panier invité, identifié par un token de session opaque.
// Créé paresseusement au premier accès d'une session.
type Cart struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItemDetail : ligne de panier jointe avec les données produit *live*.
// Le prix affiché ici peut différer d'un devis antérieur — c'est voulu,
// le panier est un ensemble de travail, pas un reçu.
type CartItemDetail struct {
	CartItemID       int64            `json:"cart_item_id"`
	Quantity         int              `json:"quantity"`
	ProductID        int64            `json:"product_id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Price            decimal.Decimal  `json:"price"`
	SalePercent      *int             `json:"sale_percent,omitempty"`
	OldPrice         *decimal.Decimal `json:"old_price,omitempty"`
	ShortDescription string           `json:"short_description"`
	PrimaryImage     *string          `json:"primary_image,omitempty"`
}

// CartView : payload renvoyé par GET /api/cart.
type CartView struct {
	CartID    int64            `json:"cart_id"`
	SessionID string           `json:"session_id"`
	Items     []CartItemDetail `json:"items"`
}
