package bridge_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/aretw0/fbxtools/pkg/bridge"
	"github.com/stretchr/testify/assert"
)

func TestBridge_DropsWithoutCallback(t *testing.T) {
	b := bridge.New(nil)
	assert.False(t, b.Registered())
	assert.NotPanics(t, func() { b.Logf("nobody listens %d", 1) })
}

func TestBridge_LastRegistrationWins(t *testing.T) {
	var first, second testutils.CaptureSink
	b := bridge.New(first.Func())
	b.Logf("one")
	b.Register(second.Func())
	b.Logf("two %s", "args")

	assert.Equal(t, []string{"one"}, first.Messages())
	assert.Equal(t, []string{"two args"}, second.Messages())

	b.Register(nil)
	b.Logf("three")
	assert.Len(t, second.Messages(), 1)
}

func TestBridge_TruncatesLongMessages(t *testing.T) {
	var sink testutils.CaptureSink
	b := bridge.New(sink.Func())

	b.Logf("%s", strings.Repeat("x", bridge.MaxMessageLen+500))
	msgs := sink.Messages()
	assert.Len(t, msgs[0], bridge.MaxMessageLen)

	// A multi-byte rune straddling the limit is dropped whole.
	b.Logf("%s", strings.Repeat("x", bridge.MaxMessageLen-1)+"é")
	msgs = sink.Messages()
	assert.Len(t, msgs[1], bridge.MaxMessageLen-1)
	assert.True(t, utf8.ValidString(msgs[1]))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", bridge.Truncate("abc", 10))
	assert.Equal(t, "ab", bridge.Truncate("abc", 2))
	assert.Equal(t, "a", bridge.Truncate("a日本", 3))
	assert.Equal(t, "a日", bridge.Truncate("a日本", 4))
}

func TestBridge_ConcurrentUse(t *testing.T) {
	var sink testutils.CaptureSink
	b := bridge.New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Register(sink.Func())
		}()
		go func() {
			defer wg.Done()
			b.Logf("msg")
		}()
	}
	wg.Wait()
	assert.True(t, b.Registered())
}

func TestSinks(t *testing.T) {
	var buf bytes.Buffer
	bridge.WriterSink(&buf)("hello")
	assert.Equal(t, "hello\n", buf.String())

	var logs bytes.Buffer
	bridge.SlogSink(slog.New(slog.NewTextHandler(&logs, nil)))("attached")
	assert.Contains(t, logs.String(), "msg=attached")
	assert.Contains(t, logs.String(), "source=bridge")
}
