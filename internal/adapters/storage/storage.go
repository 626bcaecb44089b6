// Package storage uploads rendered map documents to an S3-compatible bucket
// and hands out short-lived download links for them.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
)

// MaxObjectSize bounds a single upload. Rendered maps with a few hundred
// markers are a few hundred kilobytes.
const MaxObjectSize int64 = 10 << 20

var allowedMediaTypes = map[string]struct{}{
	"text/html": {},
	"image/png": {},
}

// PresignedURL is a time-limited download link.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StorageService interface {
	EnsureBucketExists(ctx context.Context, bucket string) error
	// PutObject replaces any existing object under fileKey.
	PutObject(ctx context.Context, bucket, fileKey, contentType string, reader io.Reader, size int64) error
	ObjectExists(ctx context.Context, bucket, fileKey string) (bool, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)
}

type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}

// ValidateContentType ignores parameters such as charset and letter case.
func ValidateContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func ValidateFileSize(size int64) error {
	switch {
	case size <= 0:
		return fmt.Errorf("object is empty")
	case size > MaxObjectSize:
		return fmt.Errorf("object of %d bytes exceeds the %d byte limit", size, MaxObjectSize)
	}
	return nil
}
