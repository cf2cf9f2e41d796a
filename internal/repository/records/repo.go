// Package records provides the generic per-collection repository every entity
// kind shares. Writes stamp actor and timestamp fields; reads surface raw
// field maps for the normalizer to consume.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// backend is the consumer interface for the document store (ISP).
type backend interface {
	List(ctx context.Context, collection string, opts store.ListOptions) ([]store.Document, error)
	Get(ctx context.Context, collection, id string) (store.Document, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// clock is injectable for tests; defaults to time.Now.
type clock func() time.Time

// Repo reads and writes documents of every entity kind.
type Repo struct {
	store backend
	now   clock
}

// New creates a records repository.
func New(s backend) *Repo {
	return &Repo{store: s, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// List reads up to limit documents of the given kind.
func (r *Repo) List(ctx context.Context, kind entity.Kind, limit int) ([]store.Document, error) {
	docs, err := r.store.List(ctx, kind.Collection(), store.ListOptions{Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}
	return docs, nil
}

// Get reads one document of the given kind.
func (r *Repo) Get(ctx context.Context, kind entity.Kind, id string) (store.Document, error) {
	doc, err := r.store.Get(ctx, kind.Collection(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Document{}, domain.ErrNotFound
		}
		return store.Document{}, fmt.Errorf("get %s/%s: %w", kind.Collection(), id, err)
	}
	return doc, nil
}

// Create inserts a document stamped with the creating actor. Returns the
// store-assigned id.
func (r *Repo) Create(ctx context.Context, kind entity.Kind, fields map[string]any, actor string) (string, error) {
	stamped := cloneFields(fields)
	now := r.now().UTC()
	stamped["createdAt"] = now
	stamped["createdBy"] = actor
	stamped["updatedAt"] = now
	stamped["updatedBy"] = actor

	id, err := r.store.Insert(ctx, kind.Collection(), stamped)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", kind.Collection(), err)
	}
	return id, nil
}

// Update merges fields into a document, stamping the updating actor.
func (r *Repo) Update(ctx context.Context, kind entity.Kind, id string, fields map[string]any, actor string) error {
	stamped := cloneFields(fields)
	stamped["updatedAt"] = r.now().UTC()
	stamped["updatedBy"] = actor

	if err := r.store.Update(ctx, kind.Collection(), id, stamped); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", kind.Collection(), id, err)
	}
	return nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if err := r.store.Delete(ctx, kind.Collection(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", kind.Collection(), id, err)
	}
	return nil
}

func cloneFields(m map[string]any) map[string]any {
	c := make(map[string]any, len(m)+4)
	for k, v := range m {
		c[k] = v
	}
	return c
}
