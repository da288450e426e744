package service

import (
	"context"

	"github.com/imagekit-developer/imagekit-go"
	"github.com/ncobase/ncore/logging/logger"
)

// UploadConfig carries the image CDN credentials.
type UploadConfig struct {
	URLEndpoint string
	PublicKey   string
	PrivateKey  string
}

// UploadService signs client-side upload authorization parameters for the
// image CDN. Uploads themselves go directly from the browser to the CDN.
type UploadService struct {
	ik     *imagekit.ImageKit
	logger *logger.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(cfg UploadConfig, log *logger.Logger) *UploadService {
	ik := imagekit.NewFromParams(imagekit.NewParams{
		UrlEndpoint: cfg.URLEndpoint,
		PublicKey:   cfg.PublicKey,
		PrivateKey:  cfg.PrivateKey,
	})
	return &UploadService{
		ik:     ik,
		logger: log,
	}
}

// AuthParams returns a fresh token/expire/signature triple the client
// presents with its upload.
func (s *UploadService) AuthParams(ctx context.Context) imagekit.SignedToken {
	return s.ik.SignToken(imagekit.SignTokenParam{})
}
