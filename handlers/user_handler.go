package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wanderbook-server/middleware"
	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

// UserService defines the profile operations the user handlers need.
type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, bio, location, profilePicture string) (*models.User, error)
}

// FriendService defines the social-graph operations the user handlers need.
type FriendService interface {
	SendFriendRequest(ctx context.Context, fromID, toID string) error
	AcceptFriendRequest(ctx context.Context, selfID, requesterID string) error
	RemoveFriend(ctx context.Context, selfID, friendID string) error
	CheckStatus(ctx context.Context, selfID, targetID string) (string, error)
	SearchByUsername(ctx context.Context, selfID, query string) ([]models.User, error)
	ListFriends(ctx context.Context, selfID string) ([]models.User, error)
}

type UserHandler struct {
	userService   UserService
	friendService FriendService
}

func NewUserHandler(userService UserService, friendService FriendService) *UserHandler {
	return &UserHandler{userService: userService, friendService: friendService}
}

// contextUserID pulls the authenticated user out of the request context
// set by the JWT middleware.
func contextUserID(r *http.Request) string {
	userID, _ := r.Context().Value("userID").(string)
	return userID
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrNotAuthenticated)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Bio            string `json:"bio"`
		Location       string `json:"location"`
		ProfilePicture string `json:"profile_picture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), contextUserID(r), input.Bio, input.Location, input.ProfilePicture)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("username")
	users, err := h.friendService.SearchByUsername(r.Context(), contextUserID(r), query)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"users": users, "count": len(users)})
}

func (h *UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friendService.ListFriends(r.Context(), contextUserID(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"friends": friends, "count": len(friends)})
}

func (h *UserHandler) FriendStatus(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]
	status, err := h.friendService.CheckStatus(r.Context(), contextUserID(r), targetID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (h *UserHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.SendFriendRequest(r.Context(), contextUserID(r), input.RecipientID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request sent"})
}

func (h *UserHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RequesterID string `json:"requester_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.AcceptFriendRequest(r.Context(), contextUserID(r), input.RequesterID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request accepted"})
}

func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), contextUserID(r), input.FriendID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend removed"})
}
