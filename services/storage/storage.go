package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const avatarFolder = "maideasy/avatars"

// Uploader is the subset of the Cloudinary upload API in use.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// StorageServiceImpl stores media on Cloudinary.
type StorageServiceImpl struct {
	uploader Uploader
	logger   *zap.Logger
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, logger *zap.Logger) StorageService {
	return &StorageServiceImpl{uploader: &cld.Upload, logger: logger}
}

func NewStorageServiceWithUploader(u Uploader, logger *zap.Logger) *StorageServiceImpl {
	return &StorageServiceImpl{uploader: u, logger: logger}
}

// UploadAvatar uploads into a per-user public id so a new picture replaces
// the previous one.
func (s *StorageServiceImpl) UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error) {
	if file == nil {
		return "", ErrEmptyUpload
	}
	params := uploader.UploadParams{
		Folder:       avatarFolder,
		PublicID:     userID,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	}
	result, err := s.uploader.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("failed to upload avatar: no URL returned")
	}
	s.logger.Info("avatar uploaded", zap.String("user", userID), zap.String("publicId", result.PublicID))
	return result.SecureURL, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
