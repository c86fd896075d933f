package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Price            decimal.Decimal  `json:"price"`
	OldPrice         *decimal.Decimal `json:"old_price,omitempty"`
	SalePercent      *int             `json:"sale_percent,omitempty"`
	SKU              *string          `json:"sku,omitempty"`
	CategoryID       int64            `json:"category_id"`
	StockQuantity    int              `json:"stock_quantity"`
	IsFeatured       bool             `json:"is_featured"`
	IsActive         bool             `json:"is_active"`
	Weight           *float64         `json:"weight,omitempty"`
	Dimensions       *string          `json:"dimensions,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Champs joints (non persistés dans la table products)
	CategoryName string         `json:"category_name,omitempty"`
	CategorySlug string         `json:"category_slug,omitempty"`
	PrimaryImage *string        `json:"primary_image,omitempty"`
	Images       []ProductImage `json:"images,omitempty"`
}

type ProductImage struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

// ProductPatch porte les champs modifiables d'un produit. Seuls les champs
// non-nil sont écrits en base — pas de construction dynamique par clés.
type ProductPatch struct {
	Name             *string          `json:"name"`
	Slug             *string          `json:"slug"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description"`
	Price            *decimal.Decimal `json:"price"`
	OldPrice         *decimal.Decimal `json:"old_price"`
	SalePercent      *int             `json:"sale_percent"`
	SKU              *string          `json:"sku"`
	CategoryID       *int64           `json:"category_id"`
	StockQuantity    *int             `json:"stock_quantity"`
	IsFeatured       *bool            `json:"is_featured"`
	IsActive         *bool            `json:"is_active"`
	Weight           *float64         `json:"weight"`
	Dimensions       *string          `json:"dimensions"`

	// Si non-nil, remplace l'intégralité des images du produit.
	Images *[]ProductImage `json:"images"`
}
