package handlers

import (
	"encoding/json"
	"net/http"

	"wanderbook-server/middleware"
)

// MapHandler serves the located posts backing the map screen.
type MapHandler struct {
	posts PostService
}

func NewMapHandler(posts PostService) *MapHandler {
	return &MapHandler{posts: posts}
}

func (h *MapHandler) Spots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.posts.Spots(r.Context(), contextUserID(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"spots": spots, "count": len(spots)})
}
