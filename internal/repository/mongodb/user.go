package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type userRepo struct {
	coll *mongo.Collection
}

func newUserRepo(coll *mongo.Collection) repository.Users {
	return &userRepo{
		coll: coll,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.CreatedAt == "" {
		user.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return nil, duplicateErr(err)
	}
	return &user, nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) ExistsWithUsername(ctx context.Context, username string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id string, updates map[string]interface{}) error {
	updates = repository.FilterUserUpdates(updates)
	if len(updates) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(updates)})
	if err != nil {
		return duplicateErr(err)
	}
	return expectMatched(res.MatchedCount, nil)
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return expectMatched(res.DeletedCount, nil)
}
