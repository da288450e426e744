// Package service contains the business logic of the blog API.
package service

import (
	"errors"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/ncore/logging/logger"
)

// Service aggregates all business logic services.
type Service struct {
	User    *UserService
	Post    *PostService
	Comment *CommentService
	Webhook *WebhookService
	Upload  *UploadService
}

// Options carries service-level configuration.
type Options struct {
	// Delay applied to the create-comment and save-toggle responses.
	Delay ResponseDelay

	// Image CDN credentials for upload authorization.
	ImageKit UploadConfig
}

// NewService creates a new service instance with all sub-services initialized.
func NewService(d *data.Data, log *logger.Logger, opts Options) *Service {
	return &Service{
		User:    NewUserService(d, log, opts.Delay),
		Post:    NewPostService(d, log),
		Comment: NewCommentService(d, log, opts.Delay),
		Webhook: NewWebhookService(d, log),
		Upload:  NewUploadService(opts.ImageKit, log),
	}
}

// asUserLookupErr translates a repository miss on a user lookup into the
// caller-facing taxonomy.
func asUserLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
