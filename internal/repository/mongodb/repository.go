// Package mongodb stores users, posts and settings as MongoDB documents.
package mongodb

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nab23-dev/prompt-sci/internal/repository"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	settingsCollection = "settings"

	usersUsernameIndex = "users_username_key"
	usersEmailIndex    = "users_email_key"
)

type MongoRepository struct {
	Users    repository.Users
	Posts    repository.Posts
	Settings repository.Settings
}

func New(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		Users:    newUserRepo(db.Collection(usersCollection)),
		Posts:    newPostRepo(db.Collection(postsCollection)),
		Settings: newSettingsRepo(db.Collection(settingsCollection)),
	}
}

// Connect opens a client and checks it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPIOptions)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the username and email uniqueness constraints and
// the feed ordering indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usersUsernameIndex),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usersEmailIndex),
		},
	}); err != nil {
		return err
	}

	_, err := db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// duplicateErr maps a duplicate key error on the users collection to the
// repository error for the violated index. Other errors pass through.
func duplicateErr(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	switch {
	case strings.Contains(err.Error(), usersEmailIndex):
		return repository.ErrEmailInUse
	case strings.Contains(err.Error(), usersUsernameIndex):
		return repository.ErrUsernameTaken
	}
	return err
}

func expectMatched(matched int64, err error) error {
	if err != nil {
		return err
	}
	if matched == 0 {
		return repository.ErrNotFound
	}
	return nil
}
