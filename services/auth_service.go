package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wanderbook-server/models"
	"wanderbook-server/repository"
	"wanderbook-server/utils/errors"
)

type AuthService struct {
	users     repository.UserRepository
	sessions  SessionStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(users repository.UserRepository, sessions SessionStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  DefaultSessionTTL,
		logger:    logger,
	}
}

// Register creates a new user and logs them in. The username must not be
// taken; the check-then-insert race is closed by the unique index in the
// store, which reports the same ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", errors.ErrInvalidInput
	}

	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil, "", errors.ErrUsernameTaken
	}
	if err != errors.ErrNotFound {
		return nil, "", errors.Storage(err, "failed to check username availability")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "HASH_ERROR", "failed to hash password", errors.ErrInternal.Status)
	}

	user := &models.User{
		ID:               uuid.New().String(),
		Username:         username,
		PasswordHash:     string(passwordHash),
		Friends:          []string{},
		IncomingRequests: []string{},
		OutgoingRequests: []string{},
		BucketListItems:  []models.BucketListItem{},
		Posts:            []string{},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if err == errors.ErrUsernameTaken {
			return nil, "", err
		}
		return nil, "", errors.Storage(err, "failed to create user")
	}

	token, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("userID", user.ID), zap.String("username", username))
	return sanitize(user), token, nil
}

// Login verifies credentials and establishes a session. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", errors.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err == errors.ErrNotFound {
		return nil, "", errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", errors.Storage(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.String("userID", user.ID))
	return sanitize(user), token, nil
}

// Logout destroys the session behind the token. Unconditional and
// idempotent: an expired, malformed, or already-cleared token is not an
// error. Touches only the session store.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID := s.sessionID(token)
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return errors.Storage(err, "failed to clear session")
	}
	return nil
}

// CurrentSession resolves a token to the authenticated user ID, or ""
// when there is no active session.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (string, error) {
	sessionID := s.sessionID(token)
	if sessionID == "" {
		return "", nil
	}
	userID, err := s.sessions.UserID(ctx, sessionID)
	if err != nil {
		return "", errors.Storage(err, "failed to read session")
	}
	return userID, nil
}

func (s *AuthService) establishSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "failed to generate token", errors.ErrInternal.Status)
	}

	if err := s.sessions.Save(ctx, sessionID, userID); err != nil {
		return "", errors.Storage(err, "failed to persist session")
	}
	return signed, nil
}

// sessionID extracts the session identifier from a token, or "" when the
// token does not verify.
func (s *AuthService) sessionID(token string) string {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrNotAuthenticated
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	return claims.ID
}

// sanitize strips the password hash before a user record leaves the auth
// boundary.
func sanitize(u *models.User) *models.User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
