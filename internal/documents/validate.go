package documents

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

// MaxUploadBytes is the largest accepted upload.
const MaxUploadBytes = 5 << 20

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedMimeTypes = map[string]struct{}{
	MimePDF:  {},
	MimeDOC:  {},
	MimeDOCX: {},
}

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

var ErrValidation = errors.New("invalid upload")

// Validate checks presence, declared type, extension and size of an upload.
// It touches neither the body nor storage.
func Validate(u *Upload) error {
	if u == nil || u.Body == nil || strings.TrimSpace(u.FileName) == "" {
		return fmt.Errorf("%w: no file uploaded", ErrValidation)
	}
	if _, ok := allowedMimeTypes[NormalizeMimeType(u.ContentType)]; !ok {
		return fmt.Errorf("%w: only PDF, DOC and DOCX files are allowed", ErrValidation)
	}
	if ext := strings.ToLower(path.Ext(u.FileName)); ext != "" {
		if _, ok := allowedExtensions[ext]; !ok {
			return fmt.Errorf("%w: unsupported file extension %q", ErrValidation, ext)
		}
	}
	if u.Size <= 0 {
		return fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if u.Size > MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d MB", ErrValidation, MaxUploadBytes>>20)
	}
	return nil
}

// NormalizeMimeType lowercases a content type and strips its parameters.
func NormalizeMimeType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(raw); err == nil {
		return strings.ToLower(parsed)
	}
	if idx := strings.Index(raw, ";"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}
