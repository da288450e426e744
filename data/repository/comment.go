package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *structs.Comment) (*structs.Comment, error)
	ListByPost(ctx context.Context, post primitive.ObjectID) ([]*structs.Comment, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) (int64, error)
	DeleteManyByUser(ctx context.Context, owner primitive.ObjectID) (int64, error)
}

type commentRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewCommentRepository creates a new comment repository instance.
func NewCommentRepository(db *mongo.Database, log *logger.Logger) CommentRepository {
	return &commentRepository{
		collection: db.Collection("comments"),
		logger:     log,
	}
}

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *structs.Comment) (*structs.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt

	_, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		r.logger.Error(ctx, "failed to create comment", "post", comment.Post.Hex(), "error", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	r.logger.Info(ctx, "comment created", "id", comment.ID.Hex(), "post", comment.Post.Hex())
	return comment, nil
}

// ListByPost retrieves every comment on a post, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, post primitive.ObjectID) ([]*structs.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"post": post}, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list comments", "post", post.Hex(), "error", err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []*structs.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// DeleteByID removes a comment regardless of owner.
func (r *commentRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

// DeleteOwned removes a comment only when the owner matches.
func (r *commentRepository) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) (int64, error) {
	return r.deleteOne(ctx, bson.M{"_id": id, "user": owner})
}

func (r *commentRepository) deleteOne(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.Error(ctx, "failed to delete comment", "error", err)
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return result.DeletedCount, nil
}

// DeleteManyByUser removes every comment owned by the user.
func (r *commentRepository) DeleteManyByUser(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user": owner})
	if err != nil {
		r.logger.Error(ctx, "failed to delete comments by user", "user", owner.Hex(), "error", err)
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}
	return result.DeletedCount, nil
}
