package domain

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxNameSize bounds destination node names in bytes.
	DefaultMaxNameSize = 1024
	// EnvMaxNameSize overrides DefaultMaxNameSize.
	EnvMaxNameSize = "FBXTOOLS_MAX_NAME_SIZE"
)

var (
	ErrNameTooLong    = errors.New("name exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("name contains invalid UTF-8 sequences")
	ErrReservedInName = errors.New("name contains a reserved sequence")
)

// Binary files store "Name\x00\x01Class" and text files "Class::Name", so
// neither separator may appear inside a node name.
var reservedSequences = []string{"\x00\x01", "::"}

// CheckNodeName rejects names that cannot be written back to a file intact.
// Unlike free text, names are never rewritten: a name that needs cleaning is
// an invalid request.
func CheckNodeName(name string) error {
	limit := maxNameSize()
	if len(name) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrNameTooLong, len(name), limit)
	}
	if !utf8.ValidString(name) {
		return ErrInvalidUTF8
	}
	for _, seq := range reservedSequences {
		if strings.Contains(name, seq) {
			return fmt.Errorf("%w: %q", ErrReservedInName, seq)
		}
	}
	for i, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character %U at byte %d", ErrReservedInName, r, i)
		}
	}
	return nil
}

func maxNameSize() int {
	if val := os.Getenv(EnvMaxNameSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxNameSize
}
