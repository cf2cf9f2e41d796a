// Package memory implements the document store contract in process memory.
// It backs tests and local development without a MongoDB instance. Insertion
// order is preserved so list reads are deterministic.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// Store is an in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	order []string
	docs  map[string]map[string]any
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Seed inserts a document with a caller-chosen id, for fixtures.
func (s *Store) Seed(collectionName, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionName)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = cloneFields(fields)
}

// List returns documents in insertion order, optionally re-sorted and capped.
func (s *Store) List(_ context.Context, collectionName string, opts store.ListOptions) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collectionName]
	if !ok {
		return nil, nil
	}

	docs := make([]store.Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, store.Document{ID: id, Fields: cloneFields(c.docs[id])})
	}

	if opts.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := lessValues(docs[i].Fields[opts.OrderBy], docs[j].Fields[opts.OrderBy])
			if opts.Descending {
				return !less
			}
			return less
		})
	}
	if opts.Limit > 0 && int64(len(docs)) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

// Get returns one document by id.
func (s *Store) Get(_ context.Context, collectionName, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collectionName]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	fields, ok := c.docs[id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Fields: cloneFields(fields)}, nil
}

// Insert stores a document under a fresh id.
func (s *Store) Insert(_ context.Context, collectionName string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collectionName)
	id := uuid.NewString()
	c.order = append(c.order, id)
	c.docs[id] = cloneFields(fields)
	return id, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(_ context.Context, collectionName, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionName]
	if !ok {
		return store.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Delete removes a document.
func (s *Store) Delete(_ context.Context, collectionName, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionName]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

// collection returns the named collection, creating it if needed.
// Caller must hold the write lock.
func (s *Store) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.collections[name] = c
	}
	return c
}

func cloneFields(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func lessValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return as < bs
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
