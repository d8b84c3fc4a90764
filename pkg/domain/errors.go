package domain

import "errors"

// Invalid argument.
var (
	// ErrDuplicateName is returned when the source and destination names are equal.
	ErrDuplicateName = errors.New("source and destination names are the same")
	// ErrInvalidRequest is returned for requests with missing fields.
	ErrInvalidRequest = errors.New("invalid request")
)

// Not found.
var (
	// ErrNodeNotFound is returned when the source node does not exist in the document.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNameCollision is returned when a node with the destination name already exists.
	ErrNameCollision = errors.New("destination name already in use")
	// ErrMeshNotFound is returned when the source node has no mesh attached.
	ErrMeshNotFound = errors.New("node has no mesh")
	// ErrOperationNotFound is returned when an operation ID cannot be found in the journal.
	ErrOperationNotFound = errors.New("operation not found")
)

// I/O.
var (
	// ErrUnreadable is returned when the document cannot be opened or parsed.
	ErrUnreadable = errors.New("document could not be read")
	// ErrWriteFailed is returned when the modified document cannot be persisted.
	ErrWriteFailed = errors.New("document could not be written")
)

// ErrInternal wraps unexpected failures inside the scene toolkit.
var ErrInternal = errors.New("internal error")
