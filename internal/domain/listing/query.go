// Package listing defines the shared filter/paginate request and page shapes
// used by every entity list screen.
package listing

import "time"

// All is the sentinel filter value meaning "no constraint" for a dimension.
const All = "all"

// Query captures one list screen's filter state. Mutating any filter input
// resets the page to 0; only SetPage moves it.
type Query struct {
	term     string
	status   string
	filters  map[string]string
	from     time.Time
	to       time.Time
	page     int
	pageSize int
}

// NewQuery creates a query with the given page size.
func NewQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = 20
	}
	return Query{filters: make(map[string]string), pageSize: pageSize}
}

// SetTerm sets the free-text search term and resets the page.
func (q *Query) SetTerm(term string) {
	q.term = term
	q.page = 0
}

// SetStatus sets the tab/status constraint and resets the page.
// The All sentinel clears it.
func (q *Query) SetStatus(status string) {
	q.status = status
	q.page = 0
}

// SetFilter sets one discrete dimension and resets the page.
// The All sentinel clears the dimension.
func (q *Query) SetFilter(dimension, value string) {
	if q.filters == nil {
		q.filters = make(map[string]string)
	}
	if value == "" || value == All {
		delete(q.filters, dimension)
	} else {
		q.filters[dimension] = value
	}
	q.page = 0
}

// SetDateRange sets the inclusive timestamp bounds and resets the page.
// Either bound may be zero, meaning unbounded on that side.
func (q *Query) SetDateRange(from, to time.Time) {
	q.from, q.to = from, to
	q.page = 0
}

// SetPage moves to a zero-based page index.
func (q *Query) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	q.page = page
}

// Term returns the free-text search term.
func (q *Query) Term() string { return q.term }

// Status returns the tab/status constraint, "" or All meaning none.
func (q *Query) Status() string { return q.status }

// Filters returns the active discrete dimensions.
func (q *Query) Filters() map[string]string { return q.filters }

// From returns the inclusive lower timestamp bound.
func (q *Query) From() time.Time { return q.from }

// To returns the inclusive upper timestamp bound.
func (q *Query) To() time.Time { return q.to }

// Page returns the zero-based page index.
func (q *Query) Page() int { return q.page }

// PageSize returns the page size.
func (q *Query) PageSize() int { return q.pageSize }
