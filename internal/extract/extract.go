package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"cv-matcher/internal/documents"
)

var (
	// ErrUnsupportedFormat is returned for stored documents whose format has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtraction covers unreadable documents.
	ErrExtraction = errors.New("text extraction failed")
	// ErrEmptyText is returned when a document yields no text.
	ErrEmptyText = fmt.Errorf("%w: no text found in document", ErrExtraction)
)

// Opener reads stored documents.
type Opener interface {
	Open(ctx context.Context, doc documents.Document) (io.ReadCloser, error)
}

// Extractor pulls plain text out of stored documents. Only PDF is supported.
type Extractor struct {
	Docs     Opener
	parsePDF func([]byte) (string, error)
}

func New(docs Opener) *Extractor {
	return &Extractor{Docs: docs, parsePDF: PDFText}
}

// ExtractText reads the stored document and returns its text.
func (e *Extractor) ExtractText(ctx context.Context, doc documents.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsPDF(doc.MimeType, doc.FileName) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, doc.MimeType)
	}

	body, err := e.Docs.Open(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("open document key=%s: %w", doc.StorageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read document key=%s: %w", doc.StorageKey, err)
	}

	parse := e.parsePDF
	if parse == nil {
		parse = PDFText
	}
	text, err := parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(text) == 0 {
		return "", ErrEmptyText
	}
	return text, nil
}

// IsPDF reports whether a document is a PDF by its declared type, falling
// back to the file extension for generic binary types.
func IsPDF(mimeType, fileName string) bool {
	switch documents.NormalizeMimeType(mimeType) {
	case documents.MimePDF:
		return true
	case "", "application/octet-stream":
		return strings.EqualFold(filepath.Ext(fileName), ".pdf")
	default:
		return false
	}
}

// PDFText returns the plain text of a PDF document.
func PDFText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
