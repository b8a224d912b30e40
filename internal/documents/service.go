package documents

import (
	"context"
	"fmt"
	"io"
	"time"

	"cv-matcher/internal/shared/storage/object"
	"cv-matcher/internal/shared/telemetry"
)

// Service stores and removes uploaded documents.
type Service struct {
	Objects object.ObjectStore
}

func NewService(objects object.ObjectStore) *Service {
	return &Service{Objects: objects}
}

// Store validates the upload and writes it under a fresh storage key.
func (s *Service) Store(ctx context.Context, ownerID string, u *Upload) (Document, error) {
	if err := Validate(u); err != nil {
		return Document{}, err
	}
	key, err := object.NewKey(ownerID, u.FileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	mimeType := NormalizeMimeType(u.ContentType)
	// Read one byte past the limit so a body larger than its declared size is caught.
	body := io.LimitReader(u.Body, MaxUploadBytes+1)
	size, err := s.Objects.Put(ctx, key, mimeType, body)
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}
	doc := Document{
		OwnerID:    ownerID,
		FileName:   u.FileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: key,
		CreatedAt:  time.Now().UTC(),
	}
	if size > MaxUploadBytes {
		if err := s.Delete(context.WithoutCancel(ctx), doc); err != nil {
			telemetry.Error("document.cleanup_failed", map[string]any{
				"request_id":  telemetry.RequestIDFrom(ctx),
				"storage_key": doc.StorageKey,
				"err":         err.Error(),
			})
		}
		return Document{}, fmt.Errorf("%w: file exceeds %d MB", ErrValidation, MaxUploadBytes>>20)
	}
	return doc, nil
}

// Open returns a reader over the stored bytes.
func (s *Service) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	return s.Objects.Open(ctx, doc.StorageKey)
}

// Delete removes the stored document.
func (s *Service) Delete(ctx context.Context, doc Document) error {
	if doc.StorageKey == "" {
		return nil
	}
	if err := s.Objects.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	telemetry.Info("document.deleted", map[string]any{
		"request_id":  telemetry.RequestIDFrom(ctx),
		"storage_key": doc.StorageKey,
	})
	return nil
}
