// Package bridge delivers human readable diagnostics to a host supplied
// callback.
//
// A Bridge holds at most one callback. Messages emitted while nothing is
// registered are dropped.
package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"
)

// MaxMessageLen bounds a single message, in bytes.
const MaxMessageLen = 10 * 1024

// Bridge is a single-slot holder for a diagnostic callback.
type Bridge struct {
	mu sync.RWMutex
	fn func(string)
}

// New returns a Bridge with fn registered. fn may be nil.
func New(fn func(string)) *Bridge {
	return &Bridge{fn: fn}
}

// Register replaces the current callback. Passing nil unregisters it.
func (b *Bridge) Register(fn func(string)) {
	b.mu.Lock()
	b.fn = fn
	b.mu.Unlock()
}

// Registered reports whether a callback is installed.
func (b *Bridge) Registered() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fn != nil
}

// Logf formats a message and hands it to the registered callback.
func (b *Bridge) Logf(format string, args ...any) {
	b.mu.RLock()
	fn := b.fn
	b.mu.RUnlock()
	if fn == nil {
		return
	}
	fn(Truncate(fmt.Sprintf(format, args...), MaxMessageLen))
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// SlogSink forwards messages to logger at info level.
func SlogSink(logger *slog.Logger) func(string) {
	return func(msg string) {
		logger.Info(msg, "source", "bridge")
	}
}

// WriterSink writes one message per line to w.
func WriterSink(w io.Writer) func(string) {
	var mu sync.Mutex
	return func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, msg)
	}
}
