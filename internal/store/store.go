// Package store persists documents and knows which accounts exist.
// The session layer treats it as external: it serializes its own writes
// per key, and the session layer performs no version checks against it.
package store

import (
	"context"
	"errors"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is the durable home of document state. Field updates are
// unconditional last-write-wins replacements.
type DocumentStore interface {
	Exists(ctx context.Context, id domain.DocumentID) (bool, error)
	Get(ctx context.Context, id domain.DocumentID) (*domain.Document, error)
	UpdateContent(ctx context.Context, id domain.DocumentID, content string) error
	UpdateTitle(ctx context.Context, id domain.DocumentID, title string) error
}

// UserStore answers whether a resolved identity belongs to a known
// account.
type UserStore interface {
	Exists(ctx context.Context, id domain.UserID) (bool, error)
}
