package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Stewz00/go-student-portal/internal/database"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
)

const usersCollection = "users"

type mongoUser struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	FirstName   string        `bson:"first_name"`
	LastName    string        `bson:"last_name"`
	Username    string        `bson:"username"`
	Email       string        `bson:"email"`
	Password    string        `bson:"password"`
	Resume      string        `bson:"resume,omitempty"`
	CoverLetter string        `bson:"cover_letter,omitempty"`
	Grades      []model.Grade `bson:"grades"`
	Created     time.Time     `bson:"created_at"`
}

func (d *mongoUser) toModel() *model.User {
	return &model.User{
		ID:          d.ID.Hex(),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Username:    d.Username,
		Email:       d.Email,
		Password:    d.Password,
		Resume:      d.Resume,
		CoverLetter: d.CoverLetter,
		Grades:      d.Grades,
		Created:     d.Created,
	}
}

// MongoUserRepository stores each user as one document with embedded grades.
type MongoUserRepository struct {
	users *mongo.Collection
}

var _ interfaces.UserRepository = (*MongoUserRepository)(nil)

// NewMongoUserRepository ensures the unique indexes on username and email exist.
func NewMongoUserRepository(ctx context.Context, m *database.Mongo) (*MongoUserRepository, error) {
	users := m.DB.Collection(usersCollection)

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &MongoUserRepository{users: users}, nil
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	doc := mongoUser{
		ID:        bson.NewObjectID(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		Grades:    user.Grades,
		Created:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if doc.Grades == nil {
		doc.Grades = []model.Grade{}
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	set := bson.D{}
	if update.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *update.Username})
	}
	if update.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *update.Email})
	}
	if update.Resume != nil {
		set = append(set, bson.E{Key: "resume", Value: *update.Resume})
	}
	if update.CoverLetter != nil {
		set = append(set, bson.E{Key: "cover_letter", Value: *update.CoverLetter})
	}

	if len(set) == 0 {
		n, err := r.users.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	}

	result, err := r.users.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return err
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var doc mongoUser
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}
