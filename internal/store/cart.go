package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mfhome_back_end/internal/models"
)

// CartStore : agrégat panier, scoped par session invitée.
type CartStore struct {
	pool *pgxpool.Pool
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// GetOrCreate récupère le panier d'une session ou le crée. Un seul
// aller-retour : l'upsert évite la course check-then-insert entre deux
// requêtes concurrentes de la même session.
func (s *CartStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.pool.QueryRow(ctx, `
		INSERT INTO carts (session_id) VALUES ($1)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id, session_id, created_at`,
		sessionID,
	).Scan(&cart.ID, &cart.SessionID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return &cart, nil
}

// ListItems renvoie les lignes du panier jointes aux données produit live
// (nom, prix, image primaire), les plus récentes d'abord.
func (s *CartStore) ListItems(ctx context.Context, cartID int64) ([]models.CartItemDetail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id, ci.quantity,
		       p.id, p.name, p.slug, p.price, p.sale_percent, p.old_price,
		       p.short_description, pi.image_url
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at DESC`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItemDetail{}
	for rows.Next() {
		var it models.CartItemDetail
		if err := rows.Scan(
			&it.CartItemID, &it.Quantity,
			&it.ProductID, &it.Name, &it.Slug, &it.Price, &it.SalePercent,
			&it.OldPrice, &it.ShortDescription, &it.PrimaryImage,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem : upsert atomique sur (cart_id, product_id). Si la ligne existe,
// la quantité est incrémentée — jamais deux lignes pour le même produit,
// même sous appels concurrents.
func (s *CartStore) AddItem(ctx context.Context, cartID, productID int64, quantity int) (*models.CartItem, error) {
	var it models.CartItem
	err := s.pool.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity, added_at`,
		cartID, productID, quantity,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return &it, nil
}

// UpdateItemQuantity fixe la quantité d'une ligne. Une quantité < 1 vaut
// suppression (deleted = true), pas erreur.
func (s *CartStore) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.CartItem, bool, error) {
	if quantity < 1 {
		if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
			return nil, false, fmt.Errorf("delete cart item: %w", err)
		}
		return nil, true, nil
	}

	var it models.CartItem
	err := s.pool.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $1 WHERE id = $2
		RETURNING id, cart_id, product_id, quantity, added_at`,
		quantity, itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("update cart item: %w", err)
	}
	return &it, false, nil
}

// RemoveItem supprime une ligne. Idempotent : supprimer une ligne absente
// n'est pas une erreur.
func (s *CartStore) RemoveItem(ctx context.Context, itemID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Clear vide le panier. Idempotent.
func (s *CartStore) Clear(ctx context.Context, cartID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
