package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"documate/internal/shared/storage/object"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooLarge        = errors.New("file too large")
	ErrContentMismatch = errors.New("content does not match format")
)

// Service persists uploaded bytes and releases them once a reference is superseded.
type Service struct {
	Store    object.ObjectStore
	MaxBytes int64
}

// Save writes the upload to object storage and returns a reference to it.
func (s *Service) Save(ctx context.Context, ownerID, fileName string, format Format, r io.Reader) (Reference, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(fileName) == "" {
		return Reference{}, ErrInvalidInput
	}
	if !format.Supported() {
		return Reference{}, fmt.Errorf("%w: format %s", ErrInvalidInput, format)
	}

	body := r
	if s.MaxBytes > 0 {
		body = io.LimitReader(r, s.MaxBytes+1)
	}

	key, size, sniffed, err := s.Store.Save(ctx, ownerID, fileName, body)
	if err != nil {
		return Reference{}, fmt.Errorf("save document owner=%s: %w", ownerID, err)
	}
	if s.MaxBytes > 0 && size > s.MaxBytes {
		_ = s.Store.Delete(ctx, key)
		return Reference{}, ErrTooLarge
	}
	if !format.acceptsContent(sniffed) {
		_ = s.Store.Delete(ctx, key)
		return Reference{}, fmt.Errorf("%w: %s sniffed as %s", ErrContentMismatch, format, sniffed)
	}

	return Reference{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		StorageKey: key,
		Format:     format,
		FileName:   fileName,
		SizeBytes:  size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Open returns the stored bytes behind a reference.
func (s *Service) Open(ctx context.Context, ref Reference) (io.ReadCloser, error) {
	if ref.StorageKey == "" {
		return nil, ErrInvalidInput
	}
	return s.Store.Open(ctx, ref.StorageKey)
}

// Release deletes the stored bytes behind a reference.
func (s *Service) Release(ctx context.Context, ref Reference) error {
	if ref.StorageKey == "" {
		return nil
	}
	if err := s.Store.Delete(ctx, ref.StorageKey); err != nil {
		return fmt.Errorf("release document id=%s: %w", ref.ID, err)
	}
	return nil
}
