package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/fbxtools/pkg/fbx"
)

// DocumentStore implements ports.DocumentStore on the local filesystem.
type DocumentStore struct{}

// NewDocumentStore returns a filesystem document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Open loads the document at path.
func (s *DocumentStore) Open(ctx context.Context, path string) (*fbx.Document, fbx.Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, fbx.FormatBinary, err
	}
	doc, format, err := fbx.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, format, fmt.Errorf("file %s does not exist: %w", path, err)
		}
		return nil, format, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return doc, format, nil
}

// Save replaces the file at path atomically, creating missing parent
// directories.
func (s *DocumentStore) Save(ctx context.Context, path string, doc *fbx.Document, format fbx.Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return fbx.Save(path, doc, format)
}
