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

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *structs.User) (*structs.User, error)
	FindByClerkID(ctx context.Context, clerkID string) (*structs.User, error)
	FindByUsername(ctx context.Context, username string) (*structs.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*structs.User, error)
	UpdateByClerkID(ctx context.Context, clerkID, username, email, img string) (*structs.User, error)
	DeleteByClerkID(ctx context.Context, clerkID string) (*structs.User, error)
	AddSavedPost(ctx context.Context, id primitive.ObjectID, postID string) error
	RemoveSavedPost(ctx context.Context, id primitive.ObjectID, postID string) error
}

type userRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *mongo.Database, log *logger.Logger) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clerk_user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn(ctx, "failed to create user indexes", "error", err)
	}

	return &userRepository{
		collection: collection,
		logger:     log,
	}
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *structs.User) (*structs.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.SavedPosts == nil {
		user.SavedPosts = []string{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		r.logger.Error(ctx, "failed to create user", "clerk_user_id", user.ClerkUserID, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info(ctx, "user created", "id", user.ID.Hex(), "username", user.Username)
	return user, nil
}

// FindByClerkID retrieves a user by provider subject id.
func (r *userRepository) FindByClerkID(ctx context.Context, clerkID string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"clerk_user_id": clerkID})
}

// FindByUsername retrieves a user by display name.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*structs.User, error) {
	var user structs.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByIDs retrieves users for the given ids in one query.
func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*structs.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error(ctx, "failed to find users", "error", err)
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*structs.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateByClerkID overwrites the provider-owned profile fields in place.
func (r *userRepository) UpdateByClerkID(ctx context.Context, clerkID, username, email, img string) (*structs.User, error) {
	update := bson.M{
		"$set": bson.M{
			"username":   username,
			"email":      email,
			"img":        img,
			"updated_at": time.Now(),
		},
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"clerk_user_id": clerkID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to update user", "clerk_user_id", clerkID, "error", result.Err())
		return nil, fmt.Errorf("failed to update user: %w", result.Err())
	}

	var updated structs.User
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated user: %w", err)
	}

	r.logger.Info(ctx, "user updated", "id", updated.ID.Hex())
	return &updated, nil
}

// DeleteByClerkID removes a user and returns the removed document so the
// caller can cascade by local id.
func (r *userRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*structs.User, error) {
	result := r.collection.FindOneAndDelete(ctx, bson.M{"clerk_user_id": clerkID})
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to delete user", "clerk_user_id", clerkID, "error", result.Err())
		return nil, fmt.Errorf("failed to delete user: %w", result.Err())
	}

	var deleted structs.User
	if err := result.Decode(&deleted); err != nil {
		return nil, fmt.Errorf("failed to decode deleted user: %w", err)
	}

	r.logger.Info(ctx, "user deleted", "id", deleted.ID.Hex())
	return &deleted, nil
}

// AddSavedPost adds a post id to the saved set. $addToSet keeps the set
// free of duplicates under concurrent saves.
func (r *userRepository) AddSavedPost(ctx context.Context, id primitive.ObjectID, postID string) error {
	update := bson.M{"$addToSet": bson.M{"saved_posts": postID}}
	if _, err := r.collection.UpdateByID(ctx, id, update); err != nil {
		r.logger.Error(ctx, "failed to save post", "user", id.Hex(), "post", postID, "error", err)
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

// RemoveSavedPost removes a post id from the saved set.
func (r *userRepository) RemoveSavedPost(ctx context.Context, id primitive.ObjectID, postID string) error {
	update := bson.M{"$pull": bson.M{"saved_posts": postID}}
	if _, err := r.collection.UpdateByID(ctx, id, update); err != nil {
		r.logger.Error(ctx, "failed to unsave post", "user", id.Hex(), "post", postID, "error", err)
		return fmt.Errorf("failed to unsave post: %w", err)
	}
	return nil
}
