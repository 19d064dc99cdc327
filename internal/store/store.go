// Package store provides post persistence on MongoDB. The feed path only
// reads from it; writes (create, like) go through it before any cache
// invalidation runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ripplehq/ripple/internal/models"
)

// ErrNotFound is returned when a referenced post does not exist.
var ErrNotFound = errors.New("post not found")

// PostStore is the persistence contract the feed core depends on.
type PostStore interface {
	// FindActivePosts returns active posts for the category scope (empty
	// string means all categories), newest first, capped at limit.
	FindActivePosts(ctx context.Context, category string, limit int) ([]models.Post, error)
	// CountActive returns the exact number of active posts in the scope.
	CountActive(ctx context.Context, category string) (int64, error)
	Create(ctx context.Context, post models.Post) (models.Post, error)
	// IncrementLikeCount atomically adjusts a post's like count by delta,
	// flooring at zero, and returns the document as it stands after the
	// update.
	IncrementLikeCount(ctx context.Context, id bson.ObjectID, delta int) (models.Post, error)
	FindByID(ctx context.Context, id bson.ObjectID) (models.Post, error)
}

// MongoStore implements PostStore on a MongoDB collection.
type MongoStore struct {
	posts *mongo.Collection
}

// NewMongoStore creates a store over db's "posts" collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{posts: db.Collection("posts")}
}

// activeFilter builds the filter for active posts, optionally scoped to one
// category.
func activeFilter(category string) bson.D {
	filter := bson.D{{Key: "is_active", Value: true}}
	if category != "" {
		filter = append(filter, bson.E{Key: "category", Value: category})
	}
	return filter
}

func (s *MongoStore) FindActivePosts(ctx context.Context, category string, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.posts.Find(ctx, activeFilter(category), opts)
	if err != nil {
		return nil, fmt.Errorf("find active posts: %w", err)
	}
	defer cur.Close(ctx)

	var rows []models.Post
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return rows, nil
}

func (s *MongoStore) CountActive(ctx context.Context, category string) (int64, error) {
	count, err := s.posts.CountDocuments(ctx, activeFilter(category))
	if err != nil {
		return 0, fmt.Errorf("count active posts: %w", err)
	}
	return count, nil
}

func (s *MongoStore) Create(ctx context.Context, post models.Post) (models.Post, error) {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.IsActive = true

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (s *MongoStore) IncrementLikeCount(ctx context.Context, id bson.ObjectID, delta int) (models.Post, error) {
	// Pipeline update so the increment and the zero floor apply in one
	// atomic write; ReturnDocument(After) hands back the count as written,
	// not a pre-read that concurrent likes could have outdated.
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "like_count", Value: bson.D{
			{Key: "$max", Value: bson.A{0, bson.D{{Key: "$add", Value: bson.A{"$like_count", delta}}}}},
		}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("increment like count: %w", err)
	}
	return post, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id bson.ObjectID) (models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}
