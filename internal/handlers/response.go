package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/models"
)

// Toutes les réponses suivent l'enveloppe {success, data?, message?,
// pagination?}. Les erreurs internes ne sortent jamais de stack trace hors
// du mode développement.

func respondOK(c *gin.Context, data any, message string) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

func respondCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data, "message": message})
}

func respondPaginated(c *gin.Context, data any, p models.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondValidation : 400 avec la liste des champs requis quand elle existe.
func respondValidation(c *gin.Context, message string, fields []string) {
	body := gin.H{"success": false, "message": message}
	if len(fields) > 0 {
		body["required"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// respondInternal logge l'erreur réelle et renvoie un message générique.
// Le détail n'est exposé qu'en mode développement.
func respondInternal(c *gin.Context, message string, err error) {
	log.Printf("❌ %s: %v", message, err)
	body := gin.H{"success": false, "message": message}
	if os.Getenv("APP_ENV") == "development" && err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
