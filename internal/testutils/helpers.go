package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/sample"
	"github.com/stretchr/testify/require"
)

// SampleDocument returns the reference scene used across tests:
//
//	RootNode -> Root (Null) -> Lod0 (Mesh) <- Lod0Mesh (Geometry), Mat (Material)
func SampleDocument() *fbx.Document {
	return sample.Document()
}

// WriteDocument encodes doc into dir/name and returns the path.
func WriteDocument(t *testing.T, dir, name string, doc *fbx.Document, format fbx.Format) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err, "failed to create fixture")
	defer f.Close()
	require.NoError(t, fbx.Encode(f, doc, format), "failed to encode fixture")
	return path
}

// WriteFile writes content to path.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write fixture")
}

// WriteSample writes SampleDocument as binary scene.fbx in a fresh temp dir.
func WriteSample(t *testing.T) string {
	t.Helper()
	return WriteDocument(t, t.TempDir(), "scene.fbx", SampleDocument(), fbx.FormatBinary)
}

// CaptureSink records diagnostic messages delivered through a log callback.
type CaptureSink struct {
	mu       sync.Mutex
	messages []string
}

// Func returns the callback to register.
func (c *CaptureSink) Func() func(string) {
	return func(msg string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.messages = append(c.messages, msg)
	}
}

// Messages returns a copy of everything received so far.
func (c *CaptureSink) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Contains reports whether any message contains substr.
func (c *CaptureSink) Contains(substr string) bool {
	for _, m := range c.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
