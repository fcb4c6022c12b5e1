package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/repository"
)

// Client-facing messages. Duplicate username and duplicate email share one
// message, as do unknown user and wrong password.
const (
	MsgRegisterFailed     = "User already exists or data invalid"
	MsgInvalidCaptcha     = "Invalid Captcha"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgUnauthorized       = "Unauthorized"
	MsgProfileConflict    = "Username or email already in use"
	MsgInternal           = "Internal server error"
)

// DefaultBcryptCost is the hashing cost used outside of tests.
const DefaultBcryptCost = 12

type AuthService struct {
	userRepo   interfaces.UserRepository
	sessions   interfaces.SessionStore
	bcryptCost int
	// compared against when the username is unknown, so both failure
	// paths spend the same time in bcrypt
	dummyHash []byte
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo interfaces.UserRepository, sessions interfaces.SessionStore, bcryptCost int) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Register creates an account with a hashed password and the default grades.
func (s *AuthService) Register(ctx context.Context, user model.User, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperror.NewValidationError(MsgRegisterFailed, err)
	}

	user.Password = string(hashed)
	user.Grades = model.DefaultGrades()
	user.Resume = ""
	user.CoverLetter = ""

	created, err := s.userRepo.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, apperror.NewValidationError(MsgRegisterFailed, err)
		}
		return nil, apperror.NewDatabaseError(MsgInternal, err)
	}
	return created, nil
}

// Login checks the captcha stored for sess and then the credentials. The stored
// captcha answer is consumed whatever the outcome. On success the caller gets
// a new authenticated session and sess is destroyed.
func (s *AuthService) Login(ctx context.Context, sess *model.Session, username, password, captcha string) (*model.Session, error) {
	expected, err := s.sessions.TakeCaptcha(ctx, sess.ID)
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		expected = ""
	case err != nil:
		return nil, apperror.NewInternalError(MsgInternal, err)
	}
	sess.Captcha = ""

	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(captcha)) != 1 {
		return nil, apperror.NewCaptchaError(MsgInvalidCaptcha, nil)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperror.NewAuthError(MsgInvalidCredentials, err)
		}
		return nil, apperror.NewDatabaseError(MsgInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.NewAuthError(MsgInvalidCredentials, err)
	}

	authed, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(MsgInternal, err)
	}
	authed.User = &model.SessionUser{ID: user.ID, Username: user.Username}
	if err := s.sessions.Save(ctx, authed); err != nil {
		return nil, apperror.NewInternalError(MsgInternal, err)
	}
	if err := s.sessions.Destroy(ctx, sess.ID); err != nil {
		return nil, apperror.NewInternalError(MsgInternal, err)
	}

	return authed, nil
}

// Logout destroys the session. Unknown sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return apperror.NewInternalError(MsgInternal, err)
	}
	return nil
}
