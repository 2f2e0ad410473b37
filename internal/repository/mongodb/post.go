package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

var feedSort = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}

type postRepo struct {
	coll *mongo.Collection
}

func newPostRepo(coll *mongo.Collection) repository.Posts {
	return &postRepo{
		coll: coll,
	}
}

// approvedAfter selects approved posts that come strictly after key in feed
// order.
func approvedAfter(key *model.PageKey) bson.M {
	filter := bson.M{"approved": true}
	if key == nil {
		return filter
	}

	filter["$or"] = bson.A{
		bson.M{"timestamp": bson.M{"$lt": key.Timestamp}},
		bson.M{"timestamp": key.Timestamp, "_id": bson.M{"$lt": key.ID}},
	}
	return filter
}

func (r *postRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	for _, post := range posts {
		normalize(post)
	}
	return posts, nil
}

func normalize(post *model.Post) {
	if post.Reactions == nil {
		post.Reactions = map[string]string{}
	}
	post.Timestamp = post.Timestamp.UTC()
}

// newPostUpdate inserts post through an upsert so the server stamps the
// timestamp with $currentDate.
func newPostUpdate(post model.Post) bson.M {
	reactions := post.Reactions
	if reactions == nil {
		reactions = map[string]string{}
	}

	return bson.M{
		"$setOnInsert": bson.M{
			"uid":       post.UID,
			"name":      post.Name,
			"username":  post.Username,
			"email":     post.Email,
			"imageURL":  post.ImageURL,
			"caption":   post.Caption,
			"prompt":    post.Prompt,
			"approved":  post.Approved,
			"reactions": reactions,
		},
		"$currentDate": bson.M{"timestamp": true},
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	id := primitive.NewObjectID().Hex()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var created model.Post
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, newPostUpdate(post), opts).Decode(&created); err != nil {
		return nil, err
	}
	normalize(&created)
	return &created, nil
}

func (r *postRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mapErr(err)
	}
	normalize(&post)
	return &post, nil
}

func (r *postRepo) ListApproved(ctx context.Context, after *model.PageKey, limit int) ([]*model.Post, error) {
	opts := options.Find().SetSort(feedSort).SetLimit(int64(limit))
	return r.find(ctx, approvedAfter(after), opts)
}

func (r *postRepo) ListByUID(ctx context.Context, uid string) ([]*model.Post, error) {
	return r.find(ctx, bson.M{"uid": uid}, options.Find().SetSort(feedSort))
}

func (r *postRepo) SetReaction(ctx context.Context, postID string, uid string, kind string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{"reactions." + uid: kind}})
	if err != nil {
		return err
	}
	return expectMatched(res.MatchedCount, nil)
}

func (r *postRepo) SetApproved(ctx context.Context, postID string, approved bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{"approved": approved}})
	if err != nil {
		return err
	}
	return expectMatched(res.MatchedCount, nil)
}

func (r *postRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return expectMatched(res.DeletedCount, nil)
}

func (r *postRepo) DeleteByUID(ctx context.Context, uid string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"uid": uid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
