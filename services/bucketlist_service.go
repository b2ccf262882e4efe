package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/repository"
	"wanderbook-server/utils/errors"
)

// BucketListService manages the bucket list embedded in the user
// document. Mutations rewrite the whole array, the way the mobile client
// always did; lists are small enough that this is fine.
type BucketListService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewBucketListService(users repository.UserRepository, logger *zap.Logger) *BucketListService {
	return &BucketListService{users: users, logger: logger}
}

// List returns the user's bucket list. When completed is non-nil, only
// items matching that completion state are returned.
func (s *BucketListService) List(ctx context.Context, userID string, completed *bool) ([]models.BucketListItem, error) {
	if userID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	if completed == nil {
		return user.BucketListItems, nil
	}
	filtered := []models.BucketListItem{}
	for _, item := range user.BucketListItems {
		if item.Completed == *completed {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *BucketListService) Create(ctx context.Context, userID, name, privacy string, images []string) (*models.BucketListItem, error) {
	if userID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	if name == "" || !models.ValidVisibility(privacy) {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	if images == nil {
		images = []string{}
	}
	item := models.BucketListItem{
		ID:      uuid.New().String(),
		Name:    name,
		Privacy: privacy,
		Images:  images,
	}
	items := append(user.BucketListItems, item)
	if err := s.users.SetBucketListItems(ctx, userID, items); err != nil {
		return nil, errors.Storage(err, "failed to save bucket list")
	}

	s.logger.Info("bucket list item created", zap.String("userID", userID), zap.String("itemID", item.ID))
	return &item, nil
}

// ToggleComplete flips the completion state of one item.
func (s *BucketListService) ToggleComplete(ctx context.Context, userID, itemID string) (*models.BucketListItem, error) {
	if userID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	var toggled *models.BucketListItem
	items := make([]models.BucketListItem, len(user.BucketListItems))
	for i, item := range user.BucketListItems {
		if item.ID == itemID {
			item.Completed = !item.Completed
			toggled = &item
		}
		items[i] = item
	}
	if toggled == nil {
		return nil, errors.ErrNotFound
	}
	if err := s.users.SetBucketListItems(ctx, userID, items); err != nil {
		return nil, errors.Storage(err, "failed to save bucket list")
	}
	return toggled, nil
}

func (s *BucketListService) Delete(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		return errors.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return lookupErr(err, "user")
	}

	items := []models.BucketListItem{}
	found := false
	for _, item := range user.BucketListItems {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return errors.ErrNotFound
	}
	if err := s.users.SetBucketListItems(ctx, userID, items); err != nil {
		return errors.Storage(err, "failed to save bucket list")
	}

	s.logger.Info("bucket list item deleted", zap.String("userID", userID), zap.String("itemID", itemID))
	return nil
}
