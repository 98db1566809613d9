package storage

import (
	"context"
	"errors"
	"io"
)

var ErrEmptyUpload = errors.New("no file to upload")

// StorageService defines the media operations the app needs.
type StorageService interface {
	// UploadAvatar stores a profile picture and returns its public URL.
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}
