package domain

import (
	"errors"
	"time"
)

// Result is the outcome of one clone operation.
// It is returned to callers and persisted in the journal.
type Result struct {
	ID      string       `json:"id"`
	Request CloneRequest `json:"request"`
	Status  Status       `json:"status"`
	Message string       `json:"message,omitempty"`

	// Set on success.
	Clone   string   `json:"clone,omitempty"`
	Mesh    string   `json:"mesh,omitempty"`
	Parents []string `json:"parents,omitempty"`

	// Output is the file that received the modified document.
	Output    string   `json:"output,omitempty"`
	Snapshots []string `json:"snapshots,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	err error
}

// NewResult starts a result for req.
func NewResult(id string, req CloneRequest, now time.Time) *Result {
	return &Result{ID: id, Request: req, Status: StatusOK, StartedAt: now}
}

// OK reports whether the operation succeeded.
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// Err returns the failure. Results loaded from a journal carry only the
// status and message, so Err rebuilds an error from those.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return errors.New(r.Message)
}

// Fail records err, deriving Status and Message from it.
func (r *Result) Fail(err error) *Result {
	r.err = err
	r.Status = StatusOf(err)
	r.Message = err.Error()
	return r
}

// Duration is the wall time between start and finish.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
