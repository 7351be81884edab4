package middleware

import (
	"sync"

	redux "github.com/goliatone/go-redux"
	"github.com/goliatone/go-redux/layering"
)

// Entry is one recorded dispatch. Values are deep copies taken at the time
// of the dispatch.
type Entry struct {
	Action redux.Action
	Before redux.State
	After  redux.State
	Err    error
}

// Recorder is a middleware keeping the history of actions it forwarded.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewRecorder keeps at most limit entries, dropping the oldest. A limit of
// zero or less keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Invoke implements redux.Middleware.
func (r *Recorder) Invoke(api redux.API, next redux.DispatchFunc, action redux.Action) (redux.State, error) {
	before := layering.Clone(api.GetState())
	state, err := next(action)
	entry := Entry{
		Action: layering.Clone(action),
		Before: before,
		After:  layering.Clone(api.GetState()),
		Err:    err,
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = append([]Entry(nil), r.entries[len(r.entries)-r.limit:]...)
	}
	r.mu.Unlock()

	return state, err
}

// Entries returns the recorded history, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// ActionTypes returns the recorded action types, oldest first.
func (r *Recorder) ActionTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		types = append(types, entry.Action.Type)
	}
	return types
}

// Reset drops the recorded history.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
