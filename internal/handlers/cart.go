package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

// CartStore : les opérations panier consommées par le handler.
type CartStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*models.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartItemDetail, error)
	AddItem(ctx context.Context, cartID, productID int64, quantity int) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.CartItem, bool, error)
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}

// ProductFinder : la vue catalogue minimale dont le panier a besoin pour
// valider un ajout.
type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type CartHandler struct {
	carts    CartStore
	products ProductFinder
}

func NewCartHandler(carts CartStore, products ProductFinder) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

// Get renvoie le panier de la session, créé paresseusement au premier accès.
func (h *CartHandler) Get(c *gin.Context) {
	sessionID := ensureSession(c)

	cart, err := h.carts.GetOrCreate(c.Request.Context(), sessionID)
	if err != nil {
		respondInternal(c, "Failed to fetch cart", err)
		return
	}
	items, err := h.carts.ListItems(c.Request.Context(), cart.ID)
	if err != nil {
		respondInternal(c, "Failed to fetch cart", err)
		return
	}

	respondOK(c, models.CartView{CartID: cart.ID, SessionID: cart.SessionID, Items: items}, "")
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddItem ajoute un produit au panier de la session. Quantité absente ou
// nulle vaut 1 ; produit inconnu ou inactif vaut 404.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == 0 {
		respondValidation(c, "product_id is required", []string{"product_id"})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	if _, err := h.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		respondInternal(c, "Failed to add item to cart", err)
		return
	}

	sessionID := ensureSession(c)
	cart, err := h.carts.GetOrCreate(ctx, sessionID)
	if err != nil {
		respondInternal(c, "Failed to add item to cart", err)
		return
	}

	item, err := h.carts.AddItem(ctx, cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondInternal(c, "Failed to add item to cart", err)
		return
	}

	respondOK(c, item, "Item added to cart")
}

type updateItemRequest struct {
	// Pointeur pour distinguer quantité absente (400) de quantité 0
	// (suppression de la ligne).
	Quantity *int `json:"quantity"`
}

// UpdateItem fixe la quantité d'une ligne. Quantité < 1 supprime la ligne.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := idParam(c, "itemId")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid item id")
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondValidation(c, "quantity is required", []string{"quantity"})
		return
	}

	item, deleted, err := h.carts.UpdateItemQuantity(c.Request.Context(), itemID, *req.Quantity)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Cart item not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to update cart item", err)
		return
	}
	if deleted {
		respondOK(c, gin.H{"deleted": true}, "Item removed from cart")
		return
	}
	respondOK(c, item, "Cart item updated")
}

// RemoveItem supprime une ligne du panier. Idempotent.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := idParam(c, "itemId")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid item id")
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), itemID); err != nil {
		respondInternal(c, "Failed to remove cart item", err)
		return
	}
	respondOK(c, nil, "Item removed from cart")
}

// Clear vide le panier de la session.
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID := ensureSession(c)
	cart, err := h.carts.GetOrCreate(c.Request.Context(), sessionID)
	if err != nil {
		respondInternal(c, "Failed to clear cart", err)
		return
	}
	if err := h.carts.Clear(c.Request.Context(), cart.ID); err != nil {
		respondInternal(c, "Failed to clear cart", err)
		return
	}
	respondOK(c, nil, "Cart cleared")
}
