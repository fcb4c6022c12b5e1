package interfaces

import (
	"context"
	"io"

	"github.com/Stewz00/go-student-portal/internal/model"
)

// UserRepository defines the interface for user-related storage operations.
// Implementations must enforce username and email uniqueness themselves.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error
}

// SessionStore keeps server-side session records keyed by session id.
type SessionStore interface {
	Create(ctx context.Context) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Destroy(ctx context.Context, id string) error
	// TakeCaptcha returns the stored captcha answer and clears it in one
	// step, so concurrent callers never see the same answer twice.
	TakeCaptcha(ctx context.Context, id string) (string, error)
}

// BlobStore persists uploaded files under a caller-chosen key and
// returns the path clients use to fetch them.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
