package ports

import (
	"context"

	"github.com/aretw0/fbxtools/pkg/fbx"
)

// DocumentStore loads and persists documents by path.
type DocumentStore interface {
	// Open reads and parses the document at path, reporting its on-disk format.
	Open(ctx context.Context, path string) (*fbx.Document, fbx.Format, error)

	// Save writes doc to path in the given format. Implementations must
	// either replace the previous content completely or leave it untouched.
	Save(ctx context.Context, path string, doc *fbx.Document, format fbx.Format) error
}
