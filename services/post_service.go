package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/repository"
	"wanderbook-server/utils/errors"
)

const (
	spotsCacheKeyPrefix = "spots:"
	spotsCacheTTL       = time.Minute
)

// PostService manages adventure posts. A post lives in the posts
// collection and its ID is also appended to the author's posts array;
// the two writes are not transactional.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	cache  *redis.Client // optional; nil disables the spots cache
	logger *zap.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, cache *redis.Client, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, users: users, cache: cache, logger: logger}
}

type CreatePostInput struct {
	Name        string
	Description string
	Rating      int
	Visibility  string
	Date        time.Time
	Location    *models.GeoPoint
	Images      []string
}

func (s *PostService) Create(ctx context.Context, authorID string, input CreatePostInput) (*models.Post, error) {
	if authorID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	if input.Name == "" || !models.ValidVisibility(input.Visibility) {
		return nil, errors.ErrInvalidInput
	}
	if input.Rating < 0 || input.Rating > 5 {
		return nil, errors.ErrInvalidInput
	}
	if input.Location != nil && len(input.Location.Coordinates) != 2 {
		return nil, errors.ErrInvalidInput
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, lookupErr(err, "author")
	}

	if input.Images == nil {
		input.Images = []string{}
	}
	post := &models.Post{
		ID:          uuid.New().String(),
		UserID:      authorID,
		Name:        input.Name,
		Description: input.Description,
		Rating:      input.Rating,
		Visibility:  input.Visibility,
		Date:        input.Date,
		Location:    input.Location,
		Images:      input.Images,
		CreatedAt:   time.Now(),
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, errors.Storage(err, "failed to create post")
	}
	if err := s.users.AddToSet(ctx, authorID, repository.FieldPosts, post.ID); err != nil {
		return nil, errors.Storage(err, "failed to link post to author")
	}

	s.invalidateSpots(ctx, authorID)
	s.logger.Info("post created", zap.String("userID", authorID), zap.String("postID", post.ID))
	return post, nil
}

// Get fetches one post, enforcing visibility against the viewer.
func (s *PostService) Get(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	if viewerID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookupErr(err, "post")
	}

	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	if !visibleTo(post, viewer) {
		// Hidden posts are indistinguishable from missing ones.
		return nil, errors.ErrNotFound
	}
	return post, nil
}

// Feed returns the viewer's own posts plus their friends' posts the
// viewer is allowed to see, newest first.
func (s *PostService) Feed(ctx context.Context, viewerID string) ([]models.Post, error) {
	if viewerID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	authors := append([]string{viewerID}, viewer.Friends...)
	posts, err := s.posts.ListByAuthors(ctx, authors)
	if err != nil {
		return nil, errors.Storage(err, "failed to load feed")
	}

	feed := []models.Post{}
	for _, post := range posts {
		if visibleTo(&post, viewer) {
			feed = append(feed, post)
		}
	}
	return feed, nil
}

// Spots returns the located posts from the viewer's feed, for the map
// screen. Results are cached briefly per viewer.
func (s *PostService) Spots(ctx context.Context, viewerID string) ([]models.Post, error) {
	if viewerID == "" {
		return nil, errors.ErrNotAuthenticated
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, spotsCacheKeyPrefix+viewerID).Result()
		if err == nil {
			var spots []models.Post
			if err := json.Unmarshal([]byte(cached), &spots); err == nil {
				return spots, nil
			}
			s.logger.Warn("discarding corrupt spots cache entry", zap.String("userID", viewerID))
		}
	}

	feed, err := s.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	spots := []models.Post{}
	for _, post := range feed {
		if post.Location != nil {
			spots = append(spots, post)
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(spots); err == nil {
			s.cache.Set(ctx, spotsCacheKeyPrefix+viewerID, data, spotsCacheTTL)
		}
	}
	return spots, nil
}

// Delete removes a post. Author only.
func (s *PostService) Delete(ctx context.Context, authorID, postID string) error {
	if authorID == "" {
		return errors.ErrNotAuthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return lookupErr(err, "post")
	}
	if post.UserID != authorID {
		return errors.ErrNotFound
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return errors.Storage(err, "failed to delete post")
	}
	if err := s.users.Pull(ctx, authorID, repository.FieldPosts, postID); err != nil {
		return errors.Storage(err, "failed to unlink post from author")
	}

	s.invalidateSpots(ctx, authorID)
	s.logger.Info("post deleted", zap.String("userID", authorID), zap.String("postID", postID))
	return nil
}

func (s *PostService) invalidateSpots(ctx context.Context, authorID string) {
	if s.cache == nil {
		return
	}
	// Only the author's own cache entry; friends' entries age out within
	// the TTL.
	s.cache.Del(ctx, spotsCacheKeyPrefix+authorID)
}

func visibleTo(post *models.Post, viewer *models.User) bool {
	if post.UserID == viewer.ID {
		return true
	}
	switch post.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFriends:
		return viewer.HasFriend(post.UserID)
	default:
		return false
	}
}
