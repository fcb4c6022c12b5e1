package test

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/repository"
)

// MockUserRepository implements the interfaces.UserRepository interface in memory.
// Like the real stores it rejects duplicate usernames and emails.
type MockUserRepository struct {
	mu     sync.Mutex
	users   map[string]*model.User
	nextID  int64
	lookups int
}

// Verify that MockUserRepository implements UserRepository interface
var _ interfaces.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*model.User)}
}

func (r *MockUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, repository.ErrDuplicateUser
		}
	}

	r.nextID++
	created := copyUser(user)
	created.ID = strconv.FormatInt(r.nextID, 10)
	created.Created = time.Now()
	if created.Grades == nil {
		created.Grades = []model.Grade{}
	}
	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *MockUserRepository) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups++
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MockUserRepository) GetUserByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *MockUserRepository) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if (update.Username != nil && *update.Username == other.Username) ||
			(update.Email != nil && *update.Email == other.Email) {
			return repository.ErrDuplicateUser
		}
	}

	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Resume != nil {
		u.Resume = *update.Resume
	}
	if update.CoverLetter != nil {
		u.CoverLetter = *update.CoverLetter
	}
	return nil
}

// Lookups returns how many times GetUserByUsername was called.
func (r *MockUserRepository) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

// Delete removes a user, simulating an account vanishing under a live session.
func (r *MockUserRepository) Delete(id string) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Grades = append([]model.Grade(nil), u.Grades...)
	return &c
}

// MockBlobStore keeps uploaded blobs in memory.
type MockBlobStore struct {
	mu    sync.Mutex
	Blobs map[string][]byte
	Err   error
}

var _ interfaces.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Blobs: make(map[string][]byte)}
}

func (s *MockBlobStore) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.Blobs[key] = data
	s.mu.Unlock()
	return "/uploads/" + key, nil
}

// Keys returns the stored blob keys.
func (s *MockBlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.Blobs))
	for k := range s.Blobs {
		keys = append(keys, k)
	}
	return keys
}
