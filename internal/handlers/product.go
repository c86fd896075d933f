package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/cache"
	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

const (
	defaultPageSize  = 20
	featuredLimit    = 7
	searchPageSize   = 20
	adminOrdersLimit = 20
)

// ProductStore : lectures et mutations catalogue consommées par le handler.
type ProductStore interface {
	List(ctx context.Context, opts store.ListOptions) ([]models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductHandler struct {
	products ProductStore
	cache    *cache.Cache
}

func NewProductHandler(products ProductStore, c *cache.Cache) *ProductHandler {
	return &ProductHandler{products: products, cache: c}
}

// List : GET /api/products, paginé, filtre ?category_id= optionnel.
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPageSize)

	opts := store.ListOptions{Page: page, Limit: limit}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			respondError(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		opts.CategoryID = &id
	}

	products, total, err := h.products.List(c.Request.Context(), opts)
	if err != nil {
		respondInternal(c, "Failed to fetch products", err)
		return
	}
	respondPaginated(c, products, models.NewPagination(page, limit, total))
}

// Featured : GET /api/products/featured, mis en cache 10 minutes.
func (h *ProductHandler) Featured(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Product
	if h.cache.Get(ctx, cache.KeyFeaturedProducts, &cached) {
		respondOK(c, cached, "")
		return
	}

	products, err := h.products.Featured(ctx, featuredLimit)
	if err != nil {
		respondInternal(c, "Failed to fetch featured products", err)
		return
	}
	h.cache.Set(ctx, cache.KeyFeaturedProducts, products, cache.CatalogTTL)
	respondOK(c, products, "")
}

// Search : GET /api/products/search?q=, résultats classés par pertinence.
func (h *ProductHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondValidation(c, "Search query is required", []string{"q"})
		return
	}
	page, limit := pageParams(c, searchPageSize)

	products, total, err := h.products.Search(c.Request.Context(), query, page, limit)
	if err != nil {
		respondInternal(c, "Failed to search products", err)
		return
	}
	respondPaginated(c, products, models.NewPagination(page, limit, total))
}

// GetBySlug : GET /api/products/slug/:slug, cache-aside par slug.
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()
	key := cache.ProductSlugKey(slug)

	var cached models.Product
	if h.cache.Get(ctx, key, &cached) {
		respondOK(c, cached, "")
		return
	}

	product, err := h.products.FindBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch product", err)
		return
	}
	h.cache.Set(ctx, key, product, cache.CatalogTTL)
	respondOK(c, product, "")
}

// GetOne : GET /api/products/:slug — accepte indifféremment un id numérique
// ou un slug.
func (h *ProductHandler) GetOne(c *gin.Context) {
	raw := c.Param("slug")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.GetBySlug(c)
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch product", err)
		return
	}
	respondOK(c, product, "")
}

// --- Surface admin ---

// AdminList : comme List mais inclut les produits inactifs.
func (h *ProductHandler) AdminList(c *gin.Context) {
	page, limit := pageParams(c, defaultPageSize)

	products, total, err := h.products.List(c.Request.Context(), store.ListOptions{
		Page: page, Limit: limit, IncludeInactive: true,
	})
	if err != nil {
		respondInternal(c, "Failed to fetch products", err)
		return
	}
	respondPaginated(c, products, models.NewPagination(page, limit, total))
}

// Create : POST /api/admin/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := []string{}
	if strings.TrimSpace(product.Name) == "" {
		missing = append(missing, "name")
	}
	if product.Price.IsZero() {
		missing = append(missing, "price")
	}
	if product.CategoryID == 0 {
		missing = append(missing, "category_id")
	}
	if len(missing) > 0 {
		respondValidation(c, "Missing product fields", missing)
		return
	}

	ctx := c.Request.Context()
	created, err := h.products.Create(ctx, &product)
	if errors.Is(err, store.ErrConflict) {
		respondError(c, http.StatusConflict, "A product with this slug already exists")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to create product", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondCreated(c, created, "Product created")
}

// Update : PUT /api/admin/products/:id, mise à jour partielle.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid product id")
		return
	}
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	updated, err := h.products.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if errors.Is(err, store.ErrConflict) {
		respondError(c, http.StatusConflict, "A product with this slug already exists")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to update product", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondOK(c, updated, "Product updated")
}

// Delete : DELETE /api/admin/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	ctx := c.Request.Context()
	if err := h.products.Delete(ctx, id); err != nil {
		respondInternal(c, "Failed to delete product", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondOK(c, nil, "Product deleted")
}
