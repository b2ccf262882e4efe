package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"wanderbook-server/middleware"
	"wanderbook-server/models"
	"wanderbook-server/services"
	"wanderbook-server/utils/errors"
)

// PostService defines the post operations the handlers need.
type PostService interface {
	Create(ctx context.Context, authorID string, input services.CreatePostInput) (*models.Post, error)
	Get(ctx context.Context, viewerID, postID string) (*models.Post, error)
	Feed(ctx context.Context, viewerID string) ([]models.Post, error)
	Spots(ctx context.Context, viewerID string) ([]models.Post, error)
	Delete(ctx context.Context, authorID, postID string) error
}

type PostHandler struct {
	posts PostService
}

func NewPostHandler(posts PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Rating      int              `json:"rating"`
		Visibility  string           `json:"visibility"`
		Date        time.Time        `json:"date"`
		Location    *models.GeoPoint `json:"location"`
		Images      []string         `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	post, err := h.posts.Create(r.Context(), contextUserID(r), services.CreatePostInput{
		Name:        input.Name,
		Description: input.Description,
		Rating:      input.Rating,
		Visibility:  input.Visibility,
		Date:        input.Date,
		Location:    input.Location,
		Images:      input.Images,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), contextUserID(r), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context(), contextUserID(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"posts": posts, "count": len(posts)})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), contextUserID(r), mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted"})
}
