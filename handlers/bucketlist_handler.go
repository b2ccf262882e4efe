package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wanderbook-server/middleware"
	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

// BucketListService defines the bucket-list operations the handlers need.
type BucketListService interface {
	List(ctx context.Context, userID string, completed *bool) ([]models.BucketListItem, error)
	Create(ctx context.Context, userID, name, privacy string, images []string) (*models.BucketListItem, error)
	ToggleComplete(ctx context.Context, userID, itemID string) (*models.BucketListItem, error)
	Delete(ctx context.Context, userID, itemID string) error
}

type BucketListHandler struct {
	bucketLists BucketListService
}

func NewBucketListHandler(bucketLists BucketListService) *BucketListHandler {
	return &BucketListHandler{bucketLists: bucketLists}
}

func (h *BucketListHandler) List(w http.ResponseWriter, r *http.Request) {
	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		completed = &value
	}

	items, err := h.bucketLists.List(r.Context(), contextUserID(r), completed)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"items": items, "count": len(items)})
}

func (h *BucketListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string   `json:"name"`
		Privacy string   `json:"privacy"`
		Images  []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	item, err := h.bucketLists.Create(r.Context(), contextUserID(r), input.Name, input.Privacy, input.Images)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *BucketListHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	item, err := h.bucketLists.ToggleComplete(r.Context(), contextUserID(r), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *BucketListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bucketLists.Delete(r.Context(), contextUserID(r), mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Bucket list item deleted"})
}
