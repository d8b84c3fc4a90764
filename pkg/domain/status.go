package domain

import "errors"

// Status is the coarse outcome of an operation.
type Status string

const (
	StatusOK              Status = "ok"
	StatusInvalidArgument Status = "invalid_argument"
	StatusNotFound        Status = "not_found"
	StatusIOFailure       Status = "io_failure"
	StatusInternal        Status = "internal"
)

// StatusOf maps an error onto its category. A nil error is StatusOK and
// anything outside the taxonomy is StatusInternal.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrInvalidRequest):
		return StatusInvalidArgument
	case errors.Is(err, ErrNodeNotFound), errors.Is(err, ErrNameCollision),
		errors.Is(err, ErrMeshNotFound), errors.Is(err, ErrOperationNotFound):
		return StatusNotFound
	case errors.Is(err, ErrUnreadable), errors.Is(err, ErrWriteFailed):
		return StatusIOFailure
	}
	return StatusInternal
}
