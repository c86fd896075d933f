package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

// AdminOrderStore : la surface commandes réservée au back-office.
type AdminOrderStore interface {
	List(ctx context.Context, opts store.OrderListOptions) ([]models.Order, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	SearchByCustomer(ctx context.Context, query string, page, limit int) ([]models.Order, int64, error)
	DashboardStats(ctx context.Context) models.DashboardStats
}

type AdminHandler struct {
	orders   AdminOrderStore
	products ProductStore
}

func NewAdminHandler(orders AdminOrderStore, products ProductStore) *AdminHandler {
	return &AdminHandler{orders: orders, products: products}
}

// ListOrders : GET /api/admin/orders, filtre ?status= et recherche ?q=.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, limit := pageParams(c, adminOrdersLimit)

	opts := store.OrderListOptions{Page: page, Limit: limit, Query: strings.TrimSpace(c.Query("q"))}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.Status = &status
	}

	orders, total, err := h.orders.List(c.Request.Context(), opts)
	if err != nil {
		respondInternal(c, "Failed to fetch orders", err)
		return
	}
	respondPaginated(c, orders, models.NewPagination(page, limit, total))
}

// GetOrder : GET /api/admin/orders/:id, avec les lignes.
func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.orders.FindByID(c.Request.Context(), id)
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

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus : PUT /api/admin/orders/:id/status. Le statut est validé
// contre l'énumération fermée avant toute écriture.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		respondValidation(c, "status is required", []string{"status"})
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to update order status", err)
		return
	}
	respondOK(c, order, "Order status updated")
}

// DeleteOrder : DELETE /api/admin/orders/:id, lignes comprises.
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondInternal(c, "Failed to delete order", err)
		return
	}
	respondOK(c, nil, "Order deleted")
}

// Dashboard : GET /api/admin/dashboard. Les sous-requêtes en échec sont
// déjà dégradées à zéro côté store — le tableau de bord répond toujours.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	respondOK(c, h.orders.DashboardStats(c.Request.Context()), "")
}

// Search : GET /api/admin/search?type=&q= — recherche unifiée back-office
// sur les produits, les commandes ou les clients.
func (h *AdminHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondValidation(c, "Search query is required", []string{"q"})
		return
	}
	page, limit := pageParams(c, defaultPageSize)
	ctx := c.Request.Context()

	switch c.DefaultQuery("type", "products") {
	case "products":
		products, total, err := h.products.Search(ctx, query, page, limit)
		if err != nil {
			respondInternal(c, "Search failed", err)
			return
		}
		respondPaginated(c, products, models.NewPagination(page, limit, total))
	case "orders":
		orders, total, err := h.orders.List(ctx, store.OrderListOptions{Page: page, Limit: limit, Query: query})
		if err != nil {
			respondInternal(c, "Search failed", err)
			return
		}
		respondPaginated(c, orders, models.NewPagination(page, limit, total))
	case "customers":
		orders, total, err := h.orders.SearchByCustomer(ctx, query, page, limit)
		if err != nil {
			respondInternal(c, "Search failed", err)
			return
		}
		respondPaginated(c, orders, models.NewPagination(page, limit, total))
	default:
		respondError(c, http.StatusBadRequest, "type must be one of: products, orders, customers")
	}
}
