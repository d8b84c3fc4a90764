package ports

import (
	"context"

	"github.com/aretw0/fbxtools/pkg/domain"
)

// Journal persists the results of clone operations.
type Journal interface {
	// Save records res under res.ID, replacing any previous record.
	Save(ctx context.Context, res *domain.Result) error

	// Load retrieves a result by operation ID.
	// Returns domain.ErrOperationNotFound if the ID is unknown.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes a result. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of recorded operations, oldest first.
	List(ctx context.Context) ([]string, error)
}
