// Package repository defines the store interfaces the services depend on.
// Implementations live in the mongodb subpackage; tests use in-memory fakes.
package repository

import (
	"context"

	"wanderbook-server/models"
)

// Array fields of the user document that are mutated with set semantics.
const (
	FieldFriends          = "friends"
	FieldIncomingRequests = "incoming_requests"
	FieldOutgoingRequests = "outgoing_requests"
	FieldPosts            = "posts"
)

// UserRepository is the persistence boundary for user documents.
type UserRepository interface {
	// Insert stores a new user document. The caller assigns the ID.
	Insert(ctx context.Context, u *models.User) error
	// GetByID fetches a user by identifier. Returns errors.ErrNotFound
	// when no document matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// FindByUsername fetches a user by exact username match. Returns
	// errors.ErrNotFound when no document matches.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile sets the free-form profile fields.
	UpdateProfile(ctx context.Context, id, bio, location, profilePicture string) error
	// AddToSet appends memberID to one of the array fields above,
	// without introducing duplicates.
	AddToSet(ctx context.Context, id, field, memberID string) error
	// Pull removes memberID from one of the array fields above.
	Pull(ctx context.Context, id, field, memberID string) error
	// SetBucketListItems replaces the embedded bucket list wholesale.
	SetBucketListItems(ctx context.Context, id string, items []models.BucketListItem) error
}
