package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/handlers"
	"mfhome_back_end/internal/middleware"
)

// Handlers regroupe tout ce que l'API expose. Les handlers reçoivent leurs
// stores à la construction — pas d'état global.
type Handlers struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Cart       *handlers.CartHandler
	Orders     *handlers.OrderHandler
	Admin      *handlers.AdminHandler
	Upload     *handlers.UploadHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "x-session-id", "x-admin-password"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	api := r.Group("/api")
	{
		// Catalogue public
		api.GET("/products", h.Products.List)
		api.GET("/products/featured", h.Products.Featured)
		api.GET("/products/search", h.Products.Search)
		api.GET("/products/slug/:slug", h.Products.GetBySlug)
		api.GET("/products/:slug", h.Products.GetOne)

		api.GET("/categories", h.Categories.List)
		api.GET("/categories/:slug", h.Categories.GetBySlug)
		api.GET("/categories/:slug/products", h.Categories.Products)

		// Panier invité (session via cookie ou x-session-id)
		api.GET("/cart", h.Cart.Get)
		api.POST("/cart/items", h.Cart.AddItem)
		api.PUT("/cart/items/:itemId", h.Cart.UpdateItem)
		api.DELETE("/cart/items/:itemId", h.Cart.RemoveItem)
		api.DELETE("/cart/clear", h.Cart.Clear)

		// Commandes
		api.POST("/orders", h.Orders.Create)
		api.GET("/orders", h.Orders.ListBySession)
		api.GET("/orders/:orderNumber", h.Orders.GetByNumber)

		// Back-office
		admin := api.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/products", h.Products.AdminList)
			admin.POST("/products", h.Products.Create)
			admin.PUT("/products/:id", h.Products.Update)
			admin.DELETE("/products/:id", h.Products.Delete)

			admin.POST("/categories", h.Categories.Create)
			admin.PUT("/categories/:id", h.Categories.Update)
			admin.DELETE("/categories/:id", h.Categories.Delete)

			admin.GET("/orders", h.Admin.ListOrders)
			admin.GET("/orders/:id", h.Admin.GetOrder)
			admin.PUT("/orders/:id/status", h.Admin.UpdateOrderStatus)
			admin.DELETE("/orders/:id", h.Admin.DeleteOrder)

			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.GET("/search", h.Admin.Search)

			admin.POST("/uploads", h.Upload.Upload)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
}
