package storage

import (
	"context"
	"errors"
	"io"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

var ErrObjectNotFound = errors.New("object not found")

// MediaStore is the object storage collaborator for sign videos.
type MediaStore interface {
	// Upload stores the blob under key. Keys are never overwritten by the
	// glossary because they embed the upload time.
	Upload(ctx context.Context, key string, blob glossary.Blob) error
	// PublicURL returns a locator clients can resolve without credentials.
	PublicURL(key string) string
	// Open streams a stored object back; the caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}
