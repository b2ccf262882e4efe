package services

import (
	"context"
	"sort"
	"sync"

	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

// fakeUserRepo is an in-memory UserRepository with the same observable
// semantics as the Mongo implementation, including set semantics on
// array fields and duplicate-username rejection.
type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	failFor   map[string]error   // write ops against these user IDs fail
	failForFn func(string) error // per-call override, consulted first
}

func (f *fakeUserRepo) writeErr(id string) error {
	if f.failForFn != nil {
		if err := f.failForFn(id); err != nil {
			return err
		}
	}
	return f.failFor[id]
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*models.User),
		failFor: make(map[string]error),
	}
}

func (f *fakeUserRepo) seed(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
}

func (f *fakeUserRepo) Insert(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return errors.ErrUsernameTaken
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id, bio, location, profilePicture string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	u.Bio, u.Location, u.ProfilePicture = bio, location, profilePicture
	return nil
}

func (f *fakeUserRepo) AddToSet(ctx context.Context, id, field, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr(id); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	set := f.arrayField(u, field)
	for _, m := range *set {
		if m == memberID {
			return nil
		}
	}
	*set = append(*set, memberID)
	return nil
}

func (f *fakeUserRepo) Pull(ctx context.Context, id, field, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr(id); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	set := f.arrayField(u, field)
	kept := (*set)[:0]
	for _, m := range *set {
		if m != memberID {
			kept = append(kept, m)
		}
	}
	*set = kept
	return nil
}

func (f *fakeUserRepo) SetBucketListItems(ctx context.Context, id string, items []models.BucketListItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr(id); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	u.BucketListItems = items
	return nil
}

func (f *fakeUserRepo) arrayField(u *models.User, field string) *[]string {
	switch field {
	case "friends":
		return &u.Friends
	case "incoming_requests":
		return &u.IncomingRequests
	case "outgoing_requests":
		return &u.OutgoingRequests
	default:
		return &u.Posts
	}
}

// fakePostRepo is an in-memory PostRepository.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) Insert(ctx context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) ListByAuthors(ctx context.Context, authorIDs []string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Post
	for _, p := range f.posts {
		for _, id := range authorIDs {
			if p.UserID == id {
				out = append(out, *p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return errors.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

// memSessionStore keeps sessions in a map.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (s *memSessionStore) Save(ctx context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *memSessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID], nil
}

func (s *memSessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
