package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

func newFriendService(t *testing.T, ids ...string) (*FriendService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	for _, id := range ids {
		users.seed(&models.User{ID: id, Username: "user-" + id})
	}
	return NewFriendService(users, zap.NewNop()), users
}

func TestFriendService_SendFriendRequest(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	carol, err := users.GetByID(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, carol.IncomingRequests)

	bob, err := users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, bob.OutgoingRequests)
}

func TestFriendService_SendFriendRequestToSelf(t *testing.T) {
	svc, users := newFriendService(t, "bob")

	err := svc.SendFriendRequest(context.Background(), "bob", "bob")
	assert.Equal(t, errors.ErrSelfRequest, err)

	bob, _ := users.GetByID(context.Background(), "bob")
	assert.Empty(t, bob.IncomingRequests)
	assert.Empty(t, bob.OutgoingRequests)
}

func TestFriendService_SendFriendRequestUnauthenticated(t *testing.T) {
	svc, _ := newFriendService(t, "carol")

	err := svc.SendFriendRequest(context.Background(), "", "carol")
	assert.Equal(t, errors.ErrNotAuthenticated, err)
}

func TestFriendService_SendFriendRequestIdempotent(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))
	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	carol, _ := users.GetByID(ctx, "carol")
	assert.Equal(t, []string{"bob"}, carol.IncomingRequests, "resend must not duplicate the pending entry")
}

func TestFriendService_SendFriendRequestAlreadyFriends(t *testing.T) {
	svc, users := newFriendService(t)
	users.seed(&models.User{ID: "bob", Friends: []string{"carol"}})
	users.seed(&models.User{ID: "carol", Friends: []string{"bob"}})
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	carol, _ := users.GetByID(ctx, "carol")
	assert.Empty(t, carol.IncomingRequests)
}

func TestFriendService_AcceptFriendRequest(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	status, err := svc.CheckStatus(ctx, "carol", "bob")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	require.NoError(t, svc.AcceptFriendRequest(ctx, "carol", "bob"))

	carol, _ := users.GetByID(ctx, "carol")
	bob, _ := users.GetByID(ctx, "bob")
	assert.Contains(t, carol.Friends, "bob")
	assert.Contains(t, bob.Friends, "carol")
	assert.NotContains(t, carol.IncomingRequests, "bob")
	assert.NotContains(t, bob.OutgoingRequests, "carol")
}

func TestFriendService_AcceptWithoutPendingRequest(t *testing.T) {
	svc, _ := newFriendService(t, "bob", "carol")

	err := svc.AcceptFriendRequest(context.Background(), "carol", "bob")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, "NO_PENDING_REQUEST", apiErr.Code)
}

func TestFriendService_AcceptPartialFailureIsRetryable(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	// The reciprocal write fails: carol's side is updated, bob's is not.
	users.failFor["bob"] = assert.AnError
	err := svc.AcceptFriendRequest(ctx, "carol", "bob")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, "STORAGE_ERROR", apiErr.Code)

	carol, _ := users.GetByID(ctx, "carol")
	bob, _ := users.GetByID(ctx, "bob")
	assert.Contains(t, carol.Friends, "bob")
	assert.NotContains(t, bob.Friends, "carol", "partial failure leaves the graph asymmetric")

	// Re-tapping accept once the store recovers completes the
	// friendship symmetrically and clears both request entries.
	delete(users.failFor, "bob")
	require.NoError(t, svc.AcceptFriendRequest(ctx, "carol", "bob"))

	carol, _ = users.GetByID(ctx, "carol")
	bob, _ = users.GetByID(ctx, "bob")
	assert.Contains(t, carol.Friends, "bob")
	assert.Contains(t, bob.Friends, "carol")
	assert.NotContains(t, carol.IncomingRequests, "bob")
	assert.NotContains(t, bob.OutgoingRequests, "carol")
}

func TestFriendService_AcceptRetryAfterPendingEntryCleared(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	// Worst-case interleaving: both friendship writes and the pending
	// $pull land, then the last cleanup write fails. The pending entry
	// is gone, so the retry must be admitted via the half-applied
	// friendship instead.
	calls := 0
	users.failForFn = func(id string) error {
		if id == "bob" {
			calls++
			if calls > 1 { // first write on bob succeeds, second fails
				return assert.AnError
			}
		}
		return nil
	}
	require.Error(t, svc.AcceptFriendRequest(ctx, "carol", "bob"))

	carol, _ := users.GetByID(ctx, "carol")
	assert.NotContains(t, carol.IncomingRequests, "bob", "pending entry already cleared")

	users.failForFn = nil
	require.NoError(t, svc.AcceptFriendRequest(ctx, "carol", "bob"))

	carol, _ = users.GetByID(ctx, "carol")
	bob, _ := users.GetByID(ctx, "bob")
	assert.Contains(t, carol.Friends, "bob")
	assert.Contains(t, bob.Friends, "carol")
	assert.NotContains(t, bob.OutgoingRequests, "carol")
}

func TestFriendService_SendPartialFailureIsRetryable(t *testing.T) {
	svc, users := newFriendService(t, "bob", "carol")
	ctx := context.Background()

	// The recipient's side lands, the sender's side fails.
	users.failFor["bob"] = assert.AnError
	err := svc.SendFriendRequest(ctx, "bob", "carol")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, "STORAGE_ERROR", apiErr.Code)

	carol, _ := users.GetByID(ctx, "carol")
	bob, _ := users.GetByID(ctx, "bob")
	assert.Contains(t, carol.IncomingRequests, "bob")
	assert.NotContains(t, bob.OutgoingRequests, "carol")

	// Resending repairs the sender's side even though the request is
	// already pending on the recipient.
	delete(users.failFor, "bob")
	require.NoError(t, svc.SendFriendRequest(ctx, "bob", "carol"))

	carol, _ = users.GetByID(ctx, "carol")
	bob, _ = users.GetByID(ctx, "bob")
	assert.Equal(t, []string{"bob"}, carol.IncomingRequests)
	assert.Equal(t, []string{"carol"}, bob.OutgoingRequests)

	status, err := svc.CheckStatus(ctx, "bob", "carol")
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, status)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	svc, users := newFriendService(t)
	users.seed(&models.User{ID: "dave", Friends: []string{"erin"}})
	users.seed(&models.User{ID: "erin", Friends: []string{"dave"}})
	ctx := context.Background()

	require.NoError(t, svc.RemoveFriend(ctx, "dave", "erin"))

	dave, _ := users.GetByID(ctx, "dave")
	erin, _ := users.GetByID(ctx, "erin")
	assert.NotContains(t, dave.Friends, "erin")
	assert.NotContains(t, erin.Friends, "dave")
}

func TestRelationshipStatus(t *testing.T) {
	self := &models.User{
		ID:               "me",
		Friends:          []string{"friend"},
		IncomingRequests: []string{"wants-me"},
		OutgoingRequests: []string{"i-want"},
	}

	tests := []struct {
		target string
		want   string
	}{
		{"friend", StatusFriends},
		{"wants-me", StatusPending},
		{"i-want", StatusRequested},
		{"stranger", StatusNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelationshipStatus(self, tt.target), "target %s", tt.target)
	}
}

func TestFriendService_ListFriends(t *testing.T) {
	svc, users := newFriendService(t)
	users.seed(&models.User{ID: "alice", Friends: []string{"bob", "gone", "carol"}})
	users.seed(&models.User{ID: "bob", Username: "bob", PasswordHash: "secret"})
	users.seed(&models.User{ID: "carol", Username: "carol"})
	ctx := context.Background()

	friends, err := svc.ListFriends(ctx, "alice")
	require.NoError(t, err)

	// "gone" no longer resolves and is skipped.
	require.Len(t, friends, 2)
	assert.Equal(t, "bob", friends[0].Username)
	assert.Equal(t, "carol", friends[1].Username)
	assert.Empty(t, friends[0].PasswordHash)
}

func TestFriendService_SearchByUsername(t *testing.T) {
	svc, users := newFriendService(t)
	users.seed(&models.User{ID: "bob", Username: "bob", PasswordHash: "secret"})
	users.seed(&models.User{ID: "carol", Username: "carol"})
	ctx := context.Background()

	// Exact match only.
	results, err := svc.SearchByUsername(ctx, "bob", "carol")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "carol", results[0].Username)

	results, err = svc.SearchByUsername(ctx, "bob", "car")
	require.NoError(t, err)
	assert.Empty(t, results)

	// The caller never finds themselves.
	results, err = svc.SearchByUsername(ctx, "bob", "bob")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Found records are sanitized.
	results, err = svc.SearchByUsername(ctx, "carol", "bob")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].PasswordHash)
}
