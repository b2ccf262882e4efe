package repository

import (
	"context"

	"wanderbook-server/models"
)

// PostRepository is the persistence boundary for post documents.
type PostRepository interface {
	Insert(ctx context.Context, p *models.Post) error
	// GetByID returns errors.ErrNotFound when no document matches.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByAuthors fetches all posts authored by any of the given users,
	// newest first.
	ListByAuthors(ctx context.Context, authorIDs []string) ([]models.Post, error)
	Delete(ctx context.Context, id string) error
}
