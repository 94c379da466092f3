package photostorage

import (
	"context"
	"fmt"
	"mime/multipart"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/nqanh/vku-student-manager/internal/pkg/logger"
)

// CloudinaryStorage uploads photos to Cloudinary and returns the secure URL.
type CloudinaryStorage struct {
	cld    *cld.Cloudinary
	folder string
}

// NewCloudinaryStorage creates a CloudinaryStorage. Credentials are read from
// the CLOUDINARY_URL environment variable by the SDK.
func NewCloudinaryStorage(folder string) (*CloudinaryStorage, error) {
	c, err := cld.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	return &CloudinaryStorage{cld: c, folder: folder}, nil
}

// UploadPhoto uploads the image and returns its durable secure URL
func (s *CloudinaryStorage) UploadPhoto(ctx context.Context, fileHeader *multipart.FileHeader, namingHint string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer file.Close()

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(namingHint),
		ResourceType: "image",
	})
	if err != nil {
		logger.Error().Err(err).Str("hint", namingHint).Msg("Cloudinary upload failed")
		return "", err
	}

	return res.SecureURL, nil
}
