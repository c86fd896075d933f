package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/checkout"
	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
	"mfhome_back_end/internal/utils"
)

// OrderReader : les lectures de commandes exposées au public.
type OrderReader interface {
	checkout.OrderCreator
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindBySession(ctx context.Context, sessionID string) ([]models.Order, error)
}

type OrderHandler struct {
	orders    OrderReader
	carts     CartStore
	assembler *checkout.Assembler

	// notify est appelé après persistance, hors chemin critique.
	// Nil désactive l'envoi (tests).
	notify func(models.Order) error
}

func NewOrderHandler(orders OrderReader, carts CartStore, assembler *checkout.Assembler) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		carts:     carts,
		assembler: assembler,
		notify:    utils.SendOrderConfirmation,
	}
}

// createOrderRequest accepte les deux formes du checkout : le chemin panier
// poste les champs client à plat, le chemin direct poste un objet customer
// et une liste items. Les montants du client sont ignorés — tout est
// re-tarifé côté serveur.
type createOrderRequest struct {
	Customer checkout.Customer        `json:"customer"`
	Items    []checkout.SubmittedItem `json:"items"`

	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Notes    string `json:"notes"`
}

func (r *createOrderRequest) customer() checkout.Customer {
	if r.Customer.FullName != "" || r.Customer.Email != "" || r.Customer.Phone != "" {
		return r.Customer
	}
	return checkout.Customer{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		Notes:    r.Notes,
	}
}

// Create : POST /api/orders. Avec items dans le corps, chemin direct
// (email requis, articles résolus au catalogue). Sans items, la commande
// est assemblée depuis le panier de la session, vidé après validation.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	sessionID := sessionFromRequest(c)
	cust := req.customer()

	var (
		order *models.Order
		cart  *models.Cart
		err   error
	)
	if len(req.Items) > 0 {
		order, err = h.assembler.FromSubmission(ctx, req.Items, cust, sessionID)
	} else {
		sessionID = ensureSession(c)
		cart, err = h.carts.GetOrCreate(ctx, sessionID)
		if err != nil {
			respondInternal(c, "Failed to create order", err)
			return
		}
		var items []models.CartItemDetail
		items, err = h.carts.ListItems(ctx, cart.ID)
		if err != nil {
			respondInternal(c, "Failed to create order", err)
			return
		}
		order, err = h.assembler.FromCart(items, cust, sessionID)
	}
	if err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			respondValidation(c, ve.Message, ve.Fields)
			return
		}
		respondInternal(c, "Failed to create order", err)
		return
	}

	created, err := checkout.PlaceOrder(ctx, h.orders, order)
	if err != nil {
		respondInternal(c, "Failed to create order", err)
		return
	}

	// Le panier n'est vidé qu'après commit. Un échec ici n'annule pas la
	// commande : on logge et on continue.
	if cart != nil {
		if err := h.carts.Clear(ctx, cart.ID); err != nil {
			log.Printf("⚠️ Panier %d non vidé après commande %s: %v", cart.ID, created.OrderNumber, err)
		}
	}

	if h.notify != nil {
		go func(o models.Order) {
			if err := h.notify(o); err != nil {
				log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", o.OrderNumber, err)
			}
		}(*created)
	}

	respondCreated(c, gin.H{
		"order_id":      created.ID,
		"order_number":  created.OrderNumber,
		"customer_name": created.CustomerName,
		"total_amount":  created.TotalAmount,
		"status":        created.Status,
	}, "Order created successfully")
}

// GetByNumber : suivi public d'une commande par son numéro.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	order, err := h.orders.FindByOrderNumber(c.Request.Context(), orderNumber)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch order", err)
		return
	}
	respondOK(c, order, "")
}

// ListBySession renvoie les commandes de la session courante. Sans session,
// liste vide — pas d'erreur.
func (h *OrderHandler) ListBySession(c *gin.Context) {
	sessionID := sessionFromRequest(c)
	if sessionID == "" {
		respondOK(c, []models.Order{}, "")
		return
	}

	orders, err := h.orders.FindBySession(c.Request.Context(), sessionID)
	if err != nil {
		respondInternal(c, "Failed to fetch orders", err)
		return
	}
	respondOK(c, orders, "")
}
