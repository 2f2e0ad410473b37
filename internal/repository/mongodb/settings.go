package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type settingsRepo struct {
	coll *mongo.Collection
}

func newSettingsRepo(coll *mongo.Collection) repository.Settings {
	return &settingsRepo{
		coll: coll,
	}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	err := r.coll.FindOne(ctx, bson.M{"_id": model.GlobalSettingsID}).Decode(&settings)
	if errors.Is(mapErr(err), repository.ErrNotFound) {
		return &model.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Put(ctx context.Context, settings model.Settings) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": model.GlobalSettingsID},
		bson.M{"$set": bson.M{"autoApprove": settings.AutoApprove}},
		options.Update().SetUpsert(true),
	)
	return err
}
