package services

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"wanderbook-server/utils/errors"
)

// ImageService pushes images to the Cloudinary CDN through an unsigned
// upload preset and hands back the served URL. Images are never stored
// locally.
type ImageService struct {
	cld    *cloudinary.Cloudinary
	preset string
	logger *zap.Logger
}

func NewImageService(cloudinaryURL, uploadPreset string, logger *zap.Logger) (*ImageService, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &ImageService{cld: cld, preset: uploadPreset, logger: logger}, nil
}

// Upload sends the image to the CDN and returns its secure URL.
func (s *ImageService) Upload(ctx context.Context, file io.Reader) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{UploadPreset: s.preset})
	if err != nil {
		return "", errors.Storage(err, "image upload failed")
	}
	if resp.Error.Message != "" {
		return "", errors.NewAPIError("STORAGE_ERROR", "image upload failed", errors.ErrInternal.Status, resp.Error.Message)
	}

	s.logger.Info("image uploaded", zap.String("publicID", resp.PublicID))
	return resp.SecureURL, nil
}
