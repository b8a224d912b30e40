package documents

import (
	"io"
	"time"
)

// Document is an uploaded file as stored in object storage.
type Document struct {
	OwnerID    string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}

// Upload is a file as received from the client, before validation.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
