package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mfhome_back_end/internal/services"
)

type UploadHandler struct {
	uploader *services.Uploader
}

func NewUploadHandler(uploader *services.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload : POST /api/admin/upload, champ multipart "image". Renvoie l'URL
// publique du fichier stocké.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		respondError(c, http.StatusServiceUnavailable, "File uploads are not configured")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondValidation(c, "image file is required", []string{"image"})
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), file)
	if err != nil {
		respondInternal(c, "Failed to upload image", err)
		return
	}
	respondOK(c, gin.H{"url": url}, "Image uploaded")
}
