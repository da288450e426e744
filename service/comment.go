package service

import (
	"context"
	"errors"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService handles comment-related business logic.
type CommentService struct {
	data   *data.Data
	logger *logger.Logger
	delay  ResponseDelay
}

// NewCommentService creates a new comment service.
func NewCommentService(d *data.Data, log *logger.Logger, delay ResponseDelay) *CommentService {
	return &CommentService{
		data:   d,
		logger: log,
		delay:  delay,
	}
}

// AddCommentRequest represents the request to create a comment.
type AddCommentRequest struct {
	Desc string `json:"desc" binding:"required"`
}

// ListByPost returns every comment on a post, newest first, with owner
// username and avatar attached. A post without comments yields an empty
// list, not an error.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*structs.CommentView, error) {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrValidation
	}

	comments, err := s.data.CommentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool, len(comments))
	for _, c := range comments {
		if !seen[c.User] {
			seen[c.User] = true
			ids = append(ids, c.User)
		}
	}

	owners, err := s.data.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*structs.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	views := make([]*structs.CommentView, 0, len(comments))
	for _, c := range comments {
		view := &structs.CommentView{Comment: *c}
		if owner, ok := byID[c.User]; ok {
			view.Owner.Username = owner.Username
			view.Owner.Img = owner.Img
		}
		views = append(views, view)
	}
	return views, nil
}

// AddComment creates a comment on an existing post. Referential integrity
// is enforced here, not assumed from the store: the post must exist and the
// caller must resolve to a local user.
func (s *CommentService) AddComment(ctx context.Context, postID string, req *AddCommentRequest) (*structs.Comment, error) {
	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrValidation
	}
	if _, err := s.data.PostRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	comment := &structs.Comment{
		User: user.ID,
		Post: id,
		Desc: req.Desc,
	}
	created, err := s.data.CommentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.delay.Wait(ctx)
	return created, nil
}

// DeleteComment removes a comment under the same gate as post deletion:
// admins by id, owners through an ownership-filtered mutation.
func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	if _, err := callerSubject(ctx); err != nil {
		return err
	}

	commentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrValidation
	}

	if callerIsAdmin(ctx) {
		if _, err := s.data.CommentRepo.DeleteByID(ctx, commentID); err != nil {
			return err
		}
		s.logger.Info(ctx, "comment deleted by admin", "id", id)
		return nil
	}

	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return err
	}

	deleted, err := s.data.CommentRepo.DeleteOwned(ctx, commentID, user.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrForbidden
	}
	return nil
}
