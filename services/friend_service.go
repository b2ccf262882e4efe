package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/repository"
	"wanderbook-server/utils/errors"
)

// Relationship classifications returned by CheckStatus.
const (
	StatusFriends   = "friends"
	StatusPending   = "pending"   // they requested me
	StatusRequested = "requested" // I requested them
	StatusNone      = "none"
)

type FriendService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewFriendService(users repository.UserRepository, logger *zap.Logger) *FriendService {
	return &FriendService{users: users, logger: logger}
}

// SendFriendRequest records a pending request from fromID to toID.
// Re-sending while a request is pending, or while already friends, is a
// no-op. The request is written to both sides (recipient's incoming,
// sender's outgoing) as two separate updates with no transaction; a
// failure after the first write is surfaced as a retryable storage error.
func (s *FriendService) SendFriendRequest(ctx context.Context, fromID, toID string) error {
	if fromID == "" {
		return errors.ErrNotAuthenticated
	}
	if toID == "" {
		return errors.ErrInvalidInput
	}
	if fromID == toID {
		return errors.ErrSelfRequest
	}

	sender, err := s.users.GetByID(ctx, fromID)
	if err != nil {
		return lookupErr(err, "sender")
	}
	recipient, err := s.users.GetByID(ctx, toID)
	if err != nil {
		return lookupErr(err, "recipient")
	}

	if recipient.HasFriend(fromID) {
		return nil
	}
	// Crossing requests: if they already asked us, there is nothing to
	// send; the caller should accept instead.
	if sender.HasIncomingRequest(toID) {
		return nil
	}

	// Both writes run even when the request is already pending: the set
	// semantics make them no-ops on a clean resend, and a resend after a
	// partial failure repairs whichever side is missing.
	if err := s.users.AddToSet(ctx, toID, repository.FieldIncomingRequests, fromID); err != nil {
		return errors.Storage(err, "failed to send friend request")
	}
	if err := s.users.AddToSet(ctx, fromID, repository.FieldOutgoingRequests, toID); err != nil {
		return errors.Storage(err, "failed to record outgoing request")
	}

	s.logger.Info("friend request sent", zap.String("from", fromID), zap.String("to", toID))
	return nil
}

// AcceptFriendRequest turns a pending request into a mutual friendship.
// Self's record is updated first, then the requester's; a failure in
// between leaves the graph asymmetric and the caller retries.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, selfID, requesterID string) error {
	if selfID == "" {
		return errors.ErrNotAuthenticated
	}
	if requesterID == "" || selfID == requesterID {
		return errors.ErrInvalidInput
	}

	self, err := s.users.GetByID(ctx, selfID)
	if err != nil {
		return lookupErr(err, "user")
	}
	// HasFriend admits retries of a previous acceptance that failed
	// partway: the friendship writes are already half-applied even
	// though the pending entry may be gone.
	if !self.HasIncomingRequest(requesterID) && !self.HasFriend(requesterID) {
		return errors.NewAPIError("NO_PENDING_REQUEST", "No pending friend request from this user", errors.ErrNotFound.Status)
	}
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return lookupErr(err, "requester")
	}

	// Friendship writes first, request cleanup last, all idempotent: a
	// failure at any step leaves a state a retry can complete from.
	if err := s.users.AddToSet(ctx, selfID, repository.FieldFriends, requesterID); err != nil {
		return errors.Storage(err, "failed to add friend")
	}
	if err := s.users.AddToSet(ctx, requesterID, repository.FieldFriends, selfID); err != nil {
		return errors.Storage(err, "failed to add reciprocal friend")
	}
	if err := s.users.Pull(ctx, selfID, repository.FieldIncomingRequests, requesterID); err != nil {
		return errors.Storage(err, "failed to clear pending request")
	}
	if err := s.users.Pull(ctx, requesterID, repository.FieldOutgoingRequests, selfID); err != nil {
		return errors.Storage(err, "failed to clear outgoing request")
	}

	s.logger.Info("friend request accepted", zap.String("user", selfID), zap.String("requester", requesterID))
	return nil
}

// RemoveFriend deletes the friendship from both sides. Same dual-write
// caveat as acceptance.
func (s *FriendService) RemoveFriend(ctx context.Context, selfID, friendID string) error {
	if selfID == "" {
		return errors.ErrNotAuthenticated
	}
	if friendID == "" || selfID == friendID {
		return errors.ErrInvalidInput
	}

	if err := s.users.Pull(ctx, selfID, repository.FieldFriends, friendID); err != nil {
		return errors.Storage(err, "failed to remove friend")
	}
	if err := s.users.Pull(ctx, friendID, repository.FieldFriends, selfID); err != nil {
		return errors.Storage(err, "failed to remove reciprocal friend")
	}

	s.logger.Info("friend removed", zap.String("user", selfID), zap.String("friend", friendID))
	return nil
}

// CheckStatus loads the caller's record and classifies the relationship.
func (s *FriendService) CheckStatus(ctx context.Context, selfID, targetID string) (string, error) {
	if selfID == "" {
		return "", errors.ErrNotAuthenticated
	}
	self, err := s.users.GetByID(ctx, selfID)
	if err != nil {
		return "", lookupErr(err, "user")
	}
	return RelationshipStatus(self, targetID), nil
}

// RelationshipStatus classifies targetID against the already-loaded user
// record. Pure; no store access.
func RelationshipStatus(self *models.User, targetID string) string {
	switch {
	case self.HasFriend(targetID):
		return StatusFriends
	case self.HasIncomingRequest(targetID):
		return StatusPending
	case self.HasOutgoingRequest(targetID):
		return StatusRequested
	default:
		return StatusNone
	}
}

// ListFriends loads the profiles of the caller's friends. One lookup per
// friend identifier, dispatched concurrently and joined; there is no
// shared mutable state between the lookups. A friend that fails to load
// is skipped rather than failing the whole list.
func (s *FriendService) ListFriends(ctx context.Context, selfID string) ([]models.User, error) {
	if selfID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	self, err := s.users.GetByID(ctx, selfID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	results := make([]*models.User, len(self.Friends))
	var wg sync.WaitGroup
	for i, friendID := range self.Friends {
		wg.Add(1)
		go func(i int, friendID string) {
			defer wg.Done()
			friend, err := s.users.GetByID(ctx, friendID)
			if err != nil {
				s.logger.Warn("failed to load friend", zap.String("friendID", friendID), zap.Error(err))
				return
			}
			results[i] = sanitize(friend)
		}(i, friendID)
	}
	wg.Wait()

	friends := []models.User{}
	for _, friend := range results {
		if friend != nil {
			friends = append(friends, *friend)
		}
	}
	return friends, nil
}

// SearchByUsername is an exact-match lookup, excluding the caller.
func (s *FriendService) SearchByUsername(ctx context.Context, selfID, query string) ([]models.User, error) {
	if selfID == "" {
		return nil, errors.ErrNotAuthenticated
	}
	if query == "" {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.users.FindByUsername(ctx, query)
	if err == errors.ErrNotFound {
		return []models.User{}, nil
	}
	if err != nil {
		return nil, errors.Storage(err, "failed to search users")
	}
	if user.ID == selfID {
		return []models.User{}, nil
	}
	return []models.User{*sanitize(user)}, nil
}

func lookupErr(err error, what string) error {
	if err == errors.ErrNotFound {
		return err
	}
	return errors.Storage(err, "failed to load "+what)
}
