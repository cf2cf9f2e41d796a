// Package record defines the search-ready projection of a source document.
// Records are synthesized per query and discarded with the result list; they
// are never persisted.
package record

import (
	"fmt"
	"strings"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/normalize"
)

// Record is a single cross-collection search hit (immutable value object).
type Record struct {
	id          string
	source      entity.Kind
	displayName string
	description string
	searchText  map[string]string
	raw         map[string]any
}

// New normalizes a raw document into a Record: it resolves the searchable
// field set for the kind and synthesizes the display name and description.
func New(kind entity.Kind, id string, raw map[string]any) Record {
	fields := normalize.Entity(kind, raw)

	searchText := make(map[string]string)
	for _, key := range normalize.SearchFields(kind) {
		if v := fields.Str(key); v != "" {
			searchText[key] = v
		}
	}

	return Record{
		id:          id,
		source:      kind,
		displayName: displayName(kind, fields),
		description: description(kind, fields),
		searchText:  searchText,
		raw:         raw,
	}
}

// Matches reports whether the lowercased query is a substring of any
// searchable field. An empty query never matches.
func (r *Record) Matches(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	for _, v := range r.searchText {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// ID returns the source document identifier.
func (r *Record) ID() string { return r.id }

// Source returns the kind of collection the record came from.
func (r *Record) Source() entity.Kind { return r.source }

// DisplayName returns the synthesized human-readable name.
func (r *Record) DisplayName() string { return r.displayName }

// Description returns the short kind-specific summary.
func (r *Record) Description() string { return r.description }

// Raw returns the original un-normalized document payload.
func (r *Record) Raw() map[string]any { return r.raw }

func displayName(kind entity.Kind, f normalize.Fields) string {
	switch kind {
	case entity.User:
		if v := f.Str("name"); v != "" {
			return v
		}
		return "Unknown User"
	case entity.Team:
		if v := f.Str("name"); v != "" {
			return v
		}
		return "Unnamed Team"
	case entity.Pump:
		if v := f.Str("name"); v != "" {
			return v
		}
		return "Unnamed Pump"
	case entity.Request:
		if v := f.Str("pumpName"); v != "" {
			return v
		}
		return "Pump Request"
	}
	return "Unknown"
}

func description(kind entity.Kind, f normalize.Fields) string {
	switch kind {
	case entity.User:
		if v := f.Str("email"); v != "" {
			return v
		}
		return f.Str("role")
	case entity.Team:
		return fmt.Sprintf("%d members", int(f.Num("memberCount")))
	case entity.Pump:
		return joinNonEmpty(f.Str("brand"), f.Str("city"))
	case entity.Request:
		return joinNonEmpty(f.Str("status"), f.Str("requestedBy"))
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
