package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/repository"
	"github.com/Stewz00/go-student-portal/internal/storage"
)

// Upload fields accepted by UpdateProfile.
const (
	FieldResume      = "resume"
	FieldCoverLetter = "cover_letter"
)

// Upload is one file attached to a profile update.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Body        io.Reader
}

type ProfileService struct {
	userRepo interfaces.UserRepository
	sessions interfaces.SessionStore
	blobs    interfaces.BlobStore
	now      func() time.Time
	// suffix tells apart uploads made in the same millisecond
	suffix func() string
}

func NewProfileService(userRepo interfaces.UserRepository, sessions interfaces.SessionStore, blobs interfaces.BlobStore) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		sessions: sessions,
		blobs:    blobs,
		now:      time.Now,
		suffix:   func() string { return uuid.NewString()[:8] },
	}
}

// GetProfile returns the user behind an authenticated session. A session
// pointing at a user that no longer exists counts as unauthenticated.
func (s *ProfileService) GetProfile(ctx context.Context, sess *model.Session) (*model.User, error) {
	if !sess.Authenticated() {
		return nil, apperror.NewUnauthorizedError(MsgUnauthorized, nil)
	}

	user, err := s.userRepo.GetUserByID(ctx, sess.User.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NewUnauthorizedError(MsgUnauthorized, err)
		}
		return nil, apperror.NewDatabaseError(MsgInternal, err)
	}
	return user, nil
}

// UpdateProfile applies the non-blank fields and stores the uploads.
func (s *ProfileService) UpdateProfile(ctx context.Context, sess *model.Session, username, email string, uploads []Upload) error {
	if !sess.Authenticated() {
		return apperror.NewUnauthorizedError(MsgUnauthorized, nil)
	}

	var update model.ProfileUpdate
	if v := strings.TrimSpace(username); v != "" {
		if err := validation.Validate(v, validation.Length(1, 64)); err != nil {
			return apperror.NewValidationError("Invalid username", err)
		}
		update.Username = &v
	}
	if v := strings.TrimSpace(email); v != "" {
		if err := validation.Validate(v, validation.Length(3, 254), is.EmailFormat); err != nil {
			return apperror.NewValidationError("Invalid email", err)
		}
		update.Email = &v
	}

	for _, u := range uploads {
		key := fmt.Sprintf("%s-%s-%d-%s%s", sess.User.ID, u.Field, s.now().UnixMilli(), s.suffix(), storage.CleanExt(u.Filename))

		var target **string
		switch u.Field {
		case FieldResume:
			target = &update.Resume
		case FieldCoverLetter:
			target = &update.CoverLetter
		default:
			return apperror.NewValidationError("Unknown upload field", fmt.Errorf("field %q", u.Field))
		}

		path, err := s.blobs.Put(ctx, key, u.Body, u.ContentType)
		if err != nil {
			return apperror.NewInternalError(MsgInternal, err)
		}
		*target = &path
	}

	if update.Empty() {
		return nil
	}

	if err := s.userRepo.UpdateProfile(ctx, sess.User.ID, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			return apperror.NewConflictError(MsgProfileConflict, err)
		case errors.Is(err, repository.ErrUserNotFound):
			return apperror.NewUnauthorizedError(MsgUnauthorized, err)
		default:
			return apperror.NewDatabaseError(MsgInternal, err)
		}
	}

	if update.Username != nil && *update.Username != sess.User.Username {
		sess.User.Username = *update.Username
		if err := s.sessions.Save(ctx, sess); err != nil {
			return apperror.NewInternalError(MsgInternal, err)
		}
	}
	return nil
}
