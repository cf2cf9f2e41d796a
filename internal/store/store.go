// Package store defines the document store contract the platform is built
// against. The store is schema-flexible: documents are plain field maps with
// an opaque, store-assigned string id.
package store

import (
	"context"
	"errors"
)

// ErrNotFound signals a missing document or collection entry.
var ErrNotFound = errors.New("store: document not found")

// Document is one stored record.
type Document struct {
	ID     string
	Fields map[string]any
}

// ListOptions bounds and orders a collection read. Limit <= 0 means the
// backend default.
type ListOptions struct {
	Limit      int64
	OrderBy    string
	Descending bool
}

// Store is the full document store facade. Consumers declare the narrow
// subset they use.
type Store interface {
	Reader
	Writer
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Reader provides collection-scoped reads.
type Reader interface {
	List(ctx context.Context, collection string, opts ListOptions) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
}

// Writer provides single-document mutations. Insert returns the assigned id.
type Writer interface {
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}
