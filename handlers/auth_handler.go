package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"wanderbook-server/middleware"
	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

// AuthService defines the credential operations the auth handlers need.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (string, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, token, err := h.authService.Register(r.Context(), input.Username, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{User: user, Token: token})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, token, err := h.authService.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{User: user, Token: token})
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), bearerToken(r)); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

// Session reports the currently authenticated user, if any.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authService.CurrentSession(r.Context(), bearerToken(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if userID == "" {
		middleware.WriteError(w, errors.ErrNotAuthenticated)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"user_id": userID})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
