package services

import (
	"context"

	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/repository"
	"wanderbook-server/utils/errors"
)

// UserService covers profile reads and edits.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetUser fetches a user with the password hash scrubbed.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return sanitize(user), nil
}

// UpdateProfile sets the free-form profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id, bio, location, profilePicture string) (*models.User, error) {
	if id == "" {
		return nil, errors.ErrNotAuthenticated
	}
	if err := s.users.UpdateProfile(ctx, id, bio, location, profilePicture); err != nil {
		if err == errors.ErrNotFound {
			return nil, err
		}
		return nil, errors.Storage(err, "failed to update profile")
	}

	s.logger.Info("profile updated", zap.String("userID", id))
	return s.GetUser(ctx, id)
}
