package memory

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/aretw0/fbxtools/pkg/fbx"
)

// DocumentStore implements ports.DocumentStore over encoded byte slices
// keyed by path. Documents are encoded on Save and decoded on Open so
// callers never share memory with the store.
type DocumentStore struct {
	mu      sync.RWMutex
	files   map[string][]byte
	opens   int
	saves   int
	failing map[string]error
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		files:   make(map[string][]byte),
		failing: make(map[string]error),
	}
}

// Put stores raw file content at path.
func (s *DocumentStore) Put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), data...)
}

// PutDocument encodes doc and stores it at path.
func (s *DocumentStore) PutDocument(path string, doc *fbx.Document, format fbx.Format) error {
	var buf bytes.Buffer
	if err := fbx.Encode(&buf, doc, format); err != nil {
		return err
	}
	s.Put(path, buf.Bytes())
	return nil
}

// Bytes returns the stored content of path.
func (s *DocumentStore) Bytes(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path]
	return append([]byte(nil), data...), ok
}

// FailSaves makes every Save to path return err. A nil err clears it.
func (s *DocumentStore) FailSaves(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failing, path)
		return
	}
	s.failing[path] = err
}

// Opens reports how many times Open has been called.
func (s *DocumentStore) Opens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens
}

// Saves reports how many Save calls succeeded.
func (s *DocumentStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Open decodes the content stored at path.
func (s *DocumentStore) Open(ctx context.Context, path string) (*fbx.Document, fbx.Format, error) {
	s.mu.Lock()
	s.opens++
	data, ok := s.files[path]
	s.mu.Unlock()

	if !ok {
		return nil, fbx.FormatBinary, fmt.Errorf("file %s does not exist: %w", path, fs.ErrNotExist)
	}
	return fbx.Decode(bytes.NewReader(data))
}

// Save encodes doc and replaces the content at path.
func (s *DocumentStore) Save(ctx context.Context, path string, doc *fbx.Document, format fbx.Format) error {
	s.mu.RLock()
	failure := s.failing[path]
	s.mu.RUnlock()
	if failure != nil {
		return failure
	}

	var buf bytes.Buffer
	if err := fbx.Encode(&buf, doc, format); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = buf.Bytes()
	s.saves++
	return nil
}
