package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a bulk operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful item result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed item result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary is the aggregate outcome of a bulk operation. Callers surface it
// as "X succeeded, Y failed" instead of an all-or-nothing error.
type Summary struct {
	Succeeded int
	Failed    int
}

// Summarize counts item outcomes.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Status() == StatusOK {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
