package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/cache"
	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

// CategoryStore : opérations catégorie consommées par le handler.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	ProductsBySlug(ctx context.Context, slug string, page, limit int) (*models.Category, []models.Product, int64, error)
	Create(ctx context.Context, cat *models.Category) (*models.Category, error)
	Update(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryHandler struct {
	categories CategoryStore
	cache      *cache.Cache
}

func NewCategoryHandler(categories CategoryStore, c *cache.Cache) *CategoryHandler {
	return &CategoryHandler{categories: categories, cache: c}
}

// List : GET /api/categories, avec compteur de produits actifs, en cache.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Category
	if h.cache.Get(ctx, cache.KeyCategories, &cached) {
		respondOK(c, cached, "")
		return
	}

	categories, err := h.categories.List(ctx)
	if err != nil {
		respondInternal(c, "Failed to fetch categories", err)
		return
	}
	h.cache.Set(ctx, cache.KeyCategories, categories, cache.CatalogTTL)
	respondOK(c, categories, "")
}

// GetBySlug : GET /api/categories/:slug.
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.categories.FindBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch category", err)
		return
	}
	respondOK(c, category, "")
}

// Products : GET /api/categories/:slug/products, page de produits actifs.
func (h *CategoryHandler) Products(c *gin.Context) {
	page, limit := pageParams(c, defaultPageSize)

	category, products, total, err := h.categories.ProductsBySlug(c.Request.Context(), c.Param("slug"), page, limit)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch category products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       gin.H{"category": category, "products": products},
		"pagination": models.NewPagination(page, limit, total),
	})
}

// --- Surface admin ---

// Create : POST /api/admin/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(category.Name) == "" {
		respondValidation(c, "Missing category fields", []string{"name"})
		return
	}

	ctx := c.Request.Context()
	created, err := h.categories.Create(ctx, &category)
	if errors.Is(err, store.ErrConflict) {
		respondError(c, http.StatusConflict, "A category with this slug already exists")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to create category", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondCreated(c, created, "Category created")
}

// Update : PUT /api/admin/categories/:id, mise à jour partielle.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid category id")
		return
	}
	var patch models.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	updated, err := h.categories.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, store.ErrConflict) {
		respondError(c, http.StatusConflict, "A category with this slug already exists")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to update category", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondOK(c, updated, "Category updated")
}

// Delete : DELETE /api/admin/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	ctx := c.Request.Context()
	if err := h.categories.Delete(ctx, id); err != nil {
		respondInternal(c, "Failed to delete category", err)
		return
	}

	h.cache.InvalidateCatalog(ctx)
	respondOK(c, nil, "Category deleted")
}
