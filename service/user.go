package service

import (
	"context"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/ncore/logging/logger"
)

// UserService handles saved-post business logic.
type UserService struct {
	data   *data.Data
	logger *logger.Logger
	delay  ResponseDelay
}

// NewUserService creates a new user service.
func NewUserService(d *data.Data, log *logger.Logger, delay ResponseDelay) *UserService {
	return &UserService{
		data:   d,
		logger: log,
		delay:  delay,
	}
}

// SavePostRequest represents the request to toggle a saved post.
type SavePostRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ToggleAction reports which way a save toggle went.
type ToggleAction string

const (
	ActionSaved   ToggleAction = "Post saved"
	ActionUnsaved ToggleAction = "Post unsaved"
)

// SavedPosts returns the caller's saved-post id list.
func (s *UserService) SavedPosts(ctx context.Context) ([]string, error) {
	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return nil, err
	}
	if user.SavedPosts == nil {
		return []string{}, nil
	}
	return user.SavedPosts, nil
}

// ToggleSavedPost flips membership of the post id in the caller's saved set
// and reports which action was taken. The membership test and the mutation
// are two steps; concurrent toggles on the same pair can interleave, but
// $addToSet/$pull keep the set well-formed either way.
func (s *UserService) ToggleSavedPost(ctx context.Context, req *SavePostRequest) (ToggleAction, error) {
	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return "", err
	}

	saved := false
	for _, p := range user.SavedPosts {
		if p == req.PostID {
			saved = true
			break
		}
	}

	if saved {
		err = s.data.UserRepo.RemoveSavedPost(ctx, user.ID, req.PostID)
	} else {
		err = s.data.UserRepo.AddSavedPost(ctx, user.ID, req.PostID)
	}
	if err != nil {
		return "", err
	}

	s.delay.Wait(ctx)

	if saved {
		return ActionUnsaved, nil
	}
	return ActionSaved, nil
}
