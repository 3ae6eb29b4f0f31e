package repository

import (
	"context"
	"errors"

	"notevault/model"
	"notevault/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		MongoCollection: db.Collection("users"),
	}
}

// AddUser inserts a new user. The username doubles as the document id,
// so a duplicate registration surfaces as a key collision.
func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.PasswordHash == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password hash required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		utils.TrackError("database", "user_creation_failed")
		return err
	}

	return nil
}

// FindUserByUsername returns the stored user or ErrUserNotFound.
func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "_id", Value: username}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}
