package fbx

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned when the input is neither binary nor ASCII FBX.
	ErrUnknownFormat = errors.New("unknown file format")
	// ErrUnsupportedVersion is returned for FBX versions older than 7.1 or newer than 7.7.
	ErrUnsupportedVersion = errors.New("unsupported fbx version")
	// ErrCorrupt is returned for malformed records.
	ErrCorrupt = errors.New("corrupt fbx data")
)

// CorruptError locates a decoding failure in the input.
type CorruptError struct {
	Offset int64
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt fbx data at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrCorrupt.
func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

func corrupt(offset int, format string, args ...any) error {
	return &CorruptError{Offset: int64(offset), Reason: fmt.Sprintf(format, args...)}
}
