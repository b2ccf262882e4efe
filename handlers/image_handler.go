package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"wanderbook-server/middleware"
	"wanderbook-server/utils/errors"
)

// Uploads are capped well above what the mobile client produces.
const maxUploadBytes = 20 << 20

// ImageService defines the CDN upload operation the handler needs.
type ImageService interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

type ImageHandler struct {
	images ImageService
}

func NewImageHandler(images ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload accepts a multipart form with a "file" part and returns the CDN
// URL of the stored image.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	defer file.Close()

	url, err := h.images.Upload(r.Context(), file)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
