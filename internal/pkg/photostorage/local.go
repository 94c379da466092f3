package photostorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/nqanh/vku-student-manager/internal/pkg/logger"
)

// LocalStorage saves photos to the local filesystem for development setups.
// Files are served statically by the HTTP server under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local photo storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// UploadPhoto writes the image under basePath and returns its served URL
func (ls *LocalStorage) UploadPhoto(_ context.Context, fileHeader *multipart.FileHeader, namingHint string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := publicID(namingHint) + ext
	dstPath := filepath.Join(ls.basePath, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	return ls.baseURL + "/" + name, nil
}
