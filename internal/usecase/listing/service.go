// Package listing implements the filter/paginate step shared by every entity
// list screen: fetch a snapshot, normalize it, AND-compose the active
// constraints, and window the result.
package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	domlist "github.com/fuelgrid-cloud/pumproom/internal/domain/listing"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/normalize"
)

// DefaultSnapshotLimit bounds how many documents a list screen fetches.
const DefaultSnapshotLimit = 1000

// Item is one normalized row of a list screen.
type Item struct {
	ID     string
	Fields normalize.Fields
	Raw    map[string]any
}

// Page is the outcome of filtering and windowing a snapshot. Total counts
// the full filtered set, not just the visible slice.
type Page struct {
	Items     []Item
	Total     int
	PageIndex int
	PageSize  int
}

// Service fetches and filters entity snapshots.
type Service struct {
	repo          Repository
	snapshotLimit int
}

// New creates a listing service.
func New(repo Repository) *Service {
	return &Service{repo: repo, snapshotLimit: DefaultSnapshotLimit}
}

// WithSnapshotLimit configures the snapshot fetch cap.
func (s *Service) WithSnapshotLimit(n int) *Service {
	if n > 0 {
		s.snapshotLimit = n
	}
	return s
}

// List fetches the kind's snapshot, normalizes it, and applies the query.
func (s *Service) List(ctx context.Context, kind entity.Kind, q domlist.Query) (Page, error) {
	docs, err := s.repo.List(ctx, kind, s.snapshotLimit)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s snapshot: %w", kind, err)
	}

	items := make([]Item, len(docs))
	for i, doc := range docs {
		items[i] = Item{ID: doc.ID, Fields: normalize.Entity(kind, doc.Fields), Raw: doc.Fields}
	}
	return Apply(kind, items, q), nil
}

// Apply filters an already-normalized snapshot and returns the requested
// page. Constraints compose as an AND, applied in order: status, discrete
// dimensions, free-text term, date range. Purely in-memory; no store calls.
func Apply(kind entity.Kind, items []Item, q domlist.Query) Page {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if matchesStatus(kind, item, q.Status()) &&
			matchesFilters(item, q.Filters()) &&
			matchesTerm(kind, item, q.Term()) &&
			matchesDateRange(kind, item, q) {
			filtered = append(filtered, item)
		}
	}

	return Page{
		Items:     window(filtered, q.Page(), q.PageSize()),
		Total:     len(filtered),
		PageIndex: q.Page(),
		PageSize:  q.PageSize(),
	}
}

func matchesStatus(kind entity.Kind, item Item, status string) bool {
	if status == "" || status == domlist.All {
		return true
	}
	field := normalize.StatusField(kind)
	if field == "" {
		return true
	}
	return strings.EqualFold(item.Fields.Str(field), status)
}

func matchesFilters(item Item, filters map[string]string) bool {
	for dimension, want := range filters {
		if !strings.EqualFold(item.Fields.Str(dimension), want) {
			return false
		}
	}
	return true
}

func matchesTerm(kind entity.Kind, item Item, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, key := range normalize.SearchFields(kind) {
		if strings.Contains(strings.ToLower(item.Fields.Str(key)), term) {
			return true
		}
	}
	return false
}

func matchesDateRange(kind entity.Kind, item Item, q domlist.Query) bool {
	if q.From().IsZero() && q.To().IsZero() {
		return true
	}
	ts := item.Fields.Time(normalize.TimeField(kind))
	if ts.IsZero() {
		return false
	}
	if !q.From().IsZero() && ts.Before(q.From()) {
		return false
	}
	if !q.To().IsZero() && ts.After(q.To()) {
		return false
	}
	return true
}

func window(items []Item, page, size int) []Item {
	start := page * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
