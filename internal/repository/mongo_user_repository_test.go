package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Stewz00/go-student-portal/internal/database"
	"github.com/Stewz00/go-student-portal/internal/model"
)

func setupTestMongo(t *testing.T) *MongoUserRepository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI environment variable is not set")
	}

	ctx := context.Background()
	m, err := database.NewMongo(ctx, uri, "user_portal_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	_, err = m.DB.Collection(usersCollection).DeleteMany(ctx, bson.D{})
	require.NoError(t, err)

	repo, err := NewMongoUserRepository(ctx, m)
	require.NoError(t, err)
	return repo
}

func TestMongoUserRepository_UniqueFields(t *testing.T) {
	repo := setupTestMongo(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, newTestUser("ana", "ana@x.com"))
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, newTestUser("ana", "other@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateUser)

	_, err = repo.CreateUser(ctx, newTestUser("bob", "ana@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestMongoUserRepository_GetAndUpdate(t *testing.T) {
	repo := setupTestMongo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, newTestUser("ana", "ana@x.com"))
	require.NoError(t, err)

	got, err := repo.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, model.DefaultGrades(), got.Grades)

	email := "ana@new.com"
	require.NoError(t, repo.UpdateProfile(ctx, created.ID, model.ProfileUpdate{Email: &email}))

	got, err = repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, email, got.Email)
	assert.Equal(t, "ana", got.Username)
	assert.Empty(t, got.Resume)
	assert.Equal(t, model.DefaultGrades(), got.Grades)

	_, err = repo.GetUserByID(ctx, "zzz")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = repo.UpdateProfile(ctx, bson.NewObjectID().Hex(), model.ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
