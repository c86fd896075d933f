package models

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Nombre de produits actifs dans la catégorie (champ calculé)
	ProductCount int `json:"product_count"`
}

// CategoryPatch : mêmes règles que ProductPatch, seuls les champs non-nil
// sont appliqués.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	ParentID    *int64  `json:"parent_id"`
}
