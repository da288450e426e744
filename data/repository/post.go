package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *structs.Post) (*structs.Post, error)
	FindBySlug(ctx context.Context, slug string) (*structs.Post, error)
	IncrementVisit(ctx context.Context, id primitive.ObjectID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, q structs.PostQuery, now time.Time) ([]*structs.Post, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) (int64, error)
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*structs.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*structs.Post, error)
	DeleteManyByUser(ctx context.Context, owner primitive.ObjectID) (int64, error)
}

type postRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewPostRepository creates a new post repository instance. The unique slug
// index is the storage backstop for the advisory slug generator.
func NewPostRepository(db *mongo.Database, log *logger.Logger) PostRepository {
	collection := db.Collection("posts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn(ctx, "failed to create slug index", "error", err)
	}

	return &postRepository{
		collection: collection,
		logger:     log,
	}
}

// Create inserts a new post. A duplicate-key error here means a concurrent
// creation won the slug; it is surfaced as a plain write failure.
func (r *postRepository) Create(ctx context.Context, post *structs.Post) (*structs.Post, error) {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt

	_, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		r.logger.Error(ctx, "failed to create post", "slug", post.Slug, "error", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	r.logger.Info(ctx, "post created", "id", post.ID.Hex(), "slug", post.Slug)
	return post, nil
}

// FindBySlug retrieves a post by slug.
func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*structs.Post, error) {
	var post structs.Post
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find post", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &post, nil
}

// FindByID retrieves a post by id.
func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*structs.Post, error) {
	var post structs.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find post", "id", id.Hex(), "error", err)
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &post, nil
}

// IncrementVisit bumps the visit counter by one.
func (r *postRepository) IncrementVisit(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$inc": bson.M{"visit": 1}}
	if _, err := r.collection.UpdateByID(ctx, id, update); err != nil {
		r.logger.Error(ctx, "failed to increment visit", "id", id.Hex(), "error", err)
		return fmt.Errorf("failed to increment visit: %w", err)
	}
	return nil
}

// SlugExists reports whether a post already uses the slug.
func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error(ctx, "failed to check slug", "slug", slug, "error", err)
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// listFilter translates listing parameters into a Mongo filter. The trending
// sort narrows the filter to the trailing window measured from now.
func listFilter(q structs.PostQuery, now time.Time) bson.M {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}
	if !q.AuthorID.IsZero() {
		filter["user"] = q.AuthorID
	}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	if q.Featured {
		filter["is_featured"] = true
	}
	if q.Sort == structs.SortTrending {
		filter["created_at"] = bson.M{"$gte": now.Add(-structs.TrendingWindow)}
	}

	return filter
}

// listSort translates the sort mode into a Mongo sort document. Unknown
// modes fall back to newest.
func listSort(q structs.PostQuery) bson.D {
	switch q.Sort {
	case structs.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	case structs.SortPopular, structs.SortTrending:
		return bson.D{{Key: "visit", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// List retrieves one page of posts matching the query.
func (r *postRepository) List(ctx context.Context, q structs.PostQuery, now time.Time) ([]*structs.Post, error) {
	skip := int64((q.Page - 1) * q.Limit)
	opts := options.Find().
		SetSort(listSort(q)).
		SetSkip(skip).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, listFilter(q, now), opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list posts", "error", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*structs.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// Count returns the total number of posts, unfiltered.
func (r *postRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error(ctx, "failed to count posts", "error", err)
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// DeleteByID removes a post regardless of owner.
func (r *postRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

// DeleteOwned removes a post only when the owner matches.
func (r *postRepository) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) (int64, error) {
	return r.deleteOne(ctx, bson.M{"_id": id, "user": owner})
}

func (r *postRepository) deleteOne(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.Error(ctx, "failed to delete post", "error", err)
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	return result.DeletedCount, nil
}

// SetFeatured sets the featured flag and returns the updated post.
func (r *postRepository) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*structs.Post, error) {
	update := bson.M{
		"$set": bson.M{
			"is_featured": featured,
			"updated_at":  time.Now(),
		},
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to feature post", "id", id.Hex(), "error", result.Err())
		return nil, fmt.Errorf("failed to feature post: %w", result.Err())
	}

	var updated structs.Post
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated post: %w", err)
	}
	return &updated, nil
}

// DeleteManyByUser removes every post owned by the user.
func (r *postRepository) DeleteManyByUser(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user": owner})
	if err != nil {
		r.logger.Error(ctx, "failed to delete posts by user", "user", owner.Hex(), "error", err)
		return 0, fmt.Errorf("failed to delete posts: %w", err)
	}
	return result.DeletedCount, nil
}
