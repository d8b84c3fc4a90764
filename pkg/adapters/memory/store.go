package memory

import (
	"context"
	"sync"

	"github.com/aretw0/fbxtools/pkg/domain"
)

// Journal implements ports.Journal in memory.
// Safe for concurrent use.
type Journal struct {
	data  map[string]*domain.Result
	order []string
	mu    sync.RWMutex
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{
		data: make(map[string]*domain.Result),
	}
}

func copyResult(res *domain.Result) *domain.Result {
	c := *res
	c.Parents = append([]string(nil), res.Parents...)
	c.Snapshots = append([]string(nil), res.Snapshots...)
	return &c
}

// Save stores a copy of res.
func (j *Journal) Save(ctx context.Context, res *domain.Result) error {
	c := copyResult(res)

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.data[res.ID]; !ok {
		j.order = append(j.order, res.ID)
	}
	j.data[res.ID] = c
	return nil
}

// Load returns a copy of the stored result.
func (j *Journal) Load(ctx context.Context, id string) (*domain.Result, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	res, ok := j.data[id]
	if !ok {
		return nil, domain.ErrOperationNotFound
	}
	return copyResult(res), nil
}

// Delete removes the result.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.data[id]; !ok {
		return nil
	}
	delete(j.data, id)
	for i, v := range j.order {
		if v == id {
			j.order = append(j.order[:i], j.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns IDs in insertion order.
func (j *Journal) List(ctx context.Context) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]string{}, j.order...), nil
}
