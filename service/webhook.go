package service

import (
	"context"
	"errors"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
)

// Identity-provider event types this service acts on. Anything else is
// acknowledged as a no-op so new provider event types never fail delivery.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookService applies identity-provider events to local user records.
type WebhookService struct {
	data   *data.Data
	logger *logger.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(d *data.Data, log *logger.Logger) *WebhookService {
	return &WebhookService{
		data:   d,
		logger: log,
	}
}

// Dispatch applies one verified event. Whatever the outcome, the handler
// acknowledges the event exactly once; only user.updated on a missing user
// reports an error, matching the provider contract.
func (s *WebhookService) Dispatch(ctx context.Context, evt *structs.WebhookEvent) error {
	switch evt.Type {
	case EventUserCreated:
		return s.createUser(ctx, evt.Data)
	case EventUserUpdated:
		return s.updateUser(ctx, evt.Data)
	case EventUserDeleted:
		s.deleteUser(ctx, evt.Data)
		return nil
	default:
		s.logger.Info(ctx, "ignoring webhook event", "type", evt.Type)
		return nil
	}
}

func (s *WebhookService) createUser(ctx context.Context, d structs.WebhookEventData) error {
	user := &structs.User{
		ClerkUserID: d.ID,
		Username:    d.DisplayName(),
		Email:       d.PrimaryEmail(),
		Img:         d.ProfileImgURL,
	}
	_, err := s.data.UserRepo.Create(ctx, user)
	return err
}

func (s *WebhookService) updateUser(ctx context.Context, d structs.WebhookEventData) error {
	_, err := s.data.UserRepo.UpdateByClerkID(ctx, d.ID, d.DisplayName(), d.PrimaryEmail(), d.ProfileImgURL)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// deleteUser removes the local profile and cascades to owned content. The
// two bulk deletes are independent and non-atomic: each is attempted even
// when the other fails, failures are logged and never retried, and none of
// them fails the acknowledgment. A redelivered delete must not re-run
// cascades against reused ids.
func (s *WebhookService) deleteUser(ctx context.Context, d structs.WebhookEventData) {
	user, err := s.data.UserRepo.DeleteByClerkID(ctx, d.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info(ctx, "user already absent, nothing to cascade", "clerk_user_id", d.ID)
		} else {
			s.logger.Error(ctx, "failed to delete user", "clerk_user_id", d.ID, "error", err)
		}
		return
	}

	if n, err := s.data.PostRepo.DeleteManyByUser(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "post cascade failed", "user", user.ID.Hex(), "error", err)
	} else {
		s.logger.Info(ctx, "posts cascaded", "user", user.ID.Hex(), "count", n)
	}

	if n, err := s.data.CommentRepo.DeleteManyByUser(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "comment cascade failed", "user", user.ID.Hex(), "error", err)
	} else {
		s.logger.Info(ctx, "comments cascaded", "user", user.ID.Hex(), "count", n)
	}
}
