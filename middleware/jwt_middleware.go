package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"wanderbook-server/services"
	"wanderbook-server/utils/errors"
)

// JWTMiddleware verifies the bearer token and checks the session behind
// it is still alive, so logout actually revokes access. The user ID is
// placed in the request context under "userID".
func JWTMiddleware(jwtSecret string, sessions services.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				WriteError(w, errors.ErrNotAuthenticated)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.NewAPIError("INVALID_TOKEN", "Unexpected signing method", http.StatusUnauthorized)
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" || claims.ID == "" {
				WriteError(w, errors.ErrNotAuthenticated)
				return
			}

			userID, err := sessions.UserID(r.Context(), claims.ID)
			if err != nil {
				WriteError(w, errors.Storage(err, "failed to read session"))
				return
			}
			if userID == "" || userID != claims.Subject {
				WriteError(w, errors.ErrNotAuthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
