package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Stewz00/go-student-portal/internal/database"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
)

// SessionRepositoryImpl keeps sessions in PostgreSQL so they survive restarts
// and can be shared by several server processes.
type SessionRepositoryImpl struct {
	db  *database.DB
	ttl time.Duration
}

var _ interfaces.SessionStore = (*SessionRepositoryImpl)(nil)

func NewSessionRepository(db *database.DB, ttl time.Duration) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db, ttl: ttl}
}

// Create starts a fresh anonymous session
func (r *SessionRepositoryImpl) Create(ctx context.Context) (*model.Session, error) {
	sess := &model.Session{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().Add(r.ttl),
	}

	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (token_id, expires_at)
		 VALUES ($1, $2)
		 RETURNING created_at`,
		sess.ID, sess.ExpiresAt).Scan(&sess.Created)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a live session. Revoked and expired sessions are reported as ErrSessionNotFound.
func (r *SessionRepositoryImpl) Get(ctx context.Context, id string) (*model.Session, error) {
	var (
		sess      = model.Session{ID: id}
		userID    *string
		username  *string
		isRevoked bool
	)

	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, username, captcha, created_at, expires_at, is_revoked
		 FROM sessions
		 WHERE token_id = $1`,
		id).Scan(&userID, &username, &sess.Captcha, &sess.Created, &sess.ExpiresAt, &isRevoked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if isRevoked || sess.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}

	if userID != nil {
		sess.User = &model.SessionUser{ID: *userID}
		if username != nil {
			sess.User.Username = *username
		}
	}
	return &sess, nil
}

// Save writes the mutable part of the session back.
func (r *SessionRepositoryImpl) Save(ctx context.Context, sess *model.Session) error {
	var userID, username *string
	if sess.User != nil {
		userID, username = &sess.User.ID, &sess.User.Username
	}

	result, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions
		 SET user_id = $2, username = $3, captcha = $4
		 WHERE token_id = $1 AND NOT is_revoked AND expires_at > CURRENT_TIMESTAMP`,
		sess.ID, userID, username, sess.Captcha)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// TakeCaptcha clears the captcha answer of a live session and returns the
// value it held. The row lock makes a second concurrent call read the cleared value.
func (r *SessionRepositoryImpl) TakeCaptcha(ctx context.Context, id string) (string, error) {
	var answer string
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE sessions s
		 SET captcha = ''
		 FROM (
		     SELECT token_id, captcha
		     FROM sessions
		     WHERE token_id = $1 AND NOT is_revoked AND expires_at > CURRENT_TIMESTAMP
		     FOR UPDATE
		 ) old
		 WHERE s.token_id = old.token_id
		 RETURNING old.captcha`,
		id).Scan(&answer)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Destroy marks a session as revoked. Unknown ids are not an error.
func (r *SessionRepositoryImpl) Destroy(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions
		 SET is_revoked = true,
		     user_id = NULL,
		     username = NULL,
		     captcha = ''
		 WHERE token_id = $1`,
		id)
	return err
}

// PurgeExpired deletes revoked and expired rows.
func (r *SessionRepositoryImpl) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM sessions
		 WHERE is_revoked OR expires_at <= CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
