package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/cache"
	"mfhome_back_end/internal/checkout"
	"mfhome_back_end/internal/config"
	"mfhome_back_end/internal/database"
	"mfhome_back_end/internal/handlers"
	"mfhome_back_end/internal/routes"
	"mfhome_back_end/internal/services"
	"mfhome_back_end/internal/store"
)

func main() {
	config.Load()

	ctx := context.Background()

	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatal("❌ Impossible de se connecter aux bases: ", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("❌ Échec des migrations: ", err)
	}

	products := store.NewProductStore(db.Pool)
	categories := store.NewCategoryStore(db.Pool)
	carts := store.NewCartStore(db.Pool)
	orders := store.NewOrderStore(db.Pool)

	catalogCache := cache.New(db.Redis)
	uploader := services.NewUploader(ctx)
	assembler := checkout.NewAssembler(products)

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Handlers{
		Products:   handlers.NewProductHandler(products, catalogCache),
		Categories: handlers.NewCategoryHandler(categories, catalogCache),
		Cart:       handlers.NewCartHandler(carts, products),
		Orders:     handlers.NewOrderHandler(orders, carts, assembler),
		Admin:      handlers.NewAdminHandler(orders, products),
		Upload:     handlers.NewUploadHandler(uploader),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Println("🚀 Serveur MF Home lancé sur le port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Erreur serveur: ", err)
		}
	}()

	// Arrêt propre : on finit les requêtes en vol avant de couper les
	// connexions.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Arrêt du serveur...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Arrêt forcé: ", err)
	}
	log.Println("✅ Serveur arrêté")
}
