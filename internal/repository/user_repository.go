package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Stewz00/go-student-portal/internal/database"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
)

// Common errors that can be returned by the repositories
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("username or email already exists")
	ErrSessionNotFound = errors.New("session not found")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// UserRepositoryImpl stores users in PostgreSQL with grades embedded as JSONB.
type UserRepositoryImpl struct {
	db *database.DB
}

var _ interfaces.UserRepository = (*UserRepositoryImpl)(nil)

func NewUserRepository(db *database.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

const selectUser = `SELECT id, first_name, last_name, username, email, password_hash,
	COALESCE(resume, ''), COALESCE(cover_letter, ''), grades, created_at
	FROM users`

// CreateUser inserts a new user. Username and email collisions are reported
// by the table's unique constraints as ErrDuplicateUser.
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	grades := user.Grades
	if grades == nil {
		grades = []model.Grade{}
	}
	gradesJSON, err := json.Marshal(grades)
	if err != nil {
		return nil, fmt.Errorf("encode grades: %w", err)
	}

	created := *user
	created.Grades = grades

	var id int64
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, username, email, password_hash, grades)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		 RETURNING id, created_at`,
		user.FirstName, user.LastName, user.Username, user.Email, user.Password, string(gradesJSON),
	).Scan(&id, &created.Created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx, selectUser+` WHERE username = $1`, username))
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return scanUser(r.db.Pool.QueryRow(ctx, selectUser+` WHERE id = $1`, pk))
}

// UpdateProfile changes only the fields set in update.
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := r.db.Pool.Exec(ctx,
		`UPDATE users
		 SET username = COALESCE($2, username),
		     email = COALESCE($3, email),
		     resume = COALESCE($4, resume),
		     cover_letter = COALESCE($5, cover_letter)
		 WHERE id = $1`,
		pk, update.Username, update.Email, update.Resume, update.CoverLetter)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user   model.User
		id     int64
		grades []byte
	)
	err := row.Scan(&id, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.Password,
		&user.Resume, &user.CoverLetter, &grades, &user.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(grades, &user.Grades); err != nil {
		return nil, fmt.Errorf("decode grades: %w", err)
	}
	user.ID = strconv.FormatInt(id, 10)
	return &user, nil
}
