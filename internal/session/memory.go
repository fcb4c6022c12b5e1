// Package session holds the process-local session store and the signed
// cookie codec used to hand session ids to browsers.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/repository"
)

// ErrNotFound is shared with the PostgreSQL store so callers can test
// for a missing session without knowing the backend.
var ErrNotFound = repository.ErrSessionNotFound

// MemoryStore keeps sessions in a map for the lifetime of the process.
// Records are copied on the way in and out, so callers never share state.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]model.Session
}

var _ interfaces.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]model.Session),
	}
}

func (s *MemoryStore) Create(_ context.Context) (*model.Session, error) {
	now := s.now()
	sess := model.Session{
		ID:        uuid.NewString(),
		Created:   now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return clone(sess), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return clone(sess), nil
}

// Save replaces the stored record. Sessions that were destroyed or expired stay gone.
func (s *MemoryStore) Save(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[sess.ID]
	if !ok || stored.Expired(s.now()) {
		return ErrNotFound
	}

	updated := *clone(*sess)
	updated.Created = stored.Created
	updated.ExpiresAt = stored.ExpiresAt
	s.sessions[sess.ID] = updated
	return nil
}

func (s *MemoryStore) TakeCaptcha(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return "", ErrNotFound
	}
	answer := sess.Captcha
	sess.Captcha = ""
	s.sessions[id] = sess
	return answer, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops every expired record and reports how many went away.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func clone(sess model.Session) *model.Session {
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return &sess
}
