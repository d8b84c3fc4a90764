package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/loam"
	loamfs "github.com/aretw0/loam/pkg/adapters/fs"
)

// DefaultJournalDir is used when New is given an empty path.
var DefaultJournalDir = filepath.Join(".fbxtools", "journal")

// Journal implements ports.Journal on a loam vault.
// Each result is a JSON document <BasePath>/<id>.json whose fields are the
// result and whose content is a one line summary.
type Journal struct {
	BasePath string

	once sync.Once
	repo *loam.TypedRepository[domain.Result]
	err  error
}

// NewJournal creates a Journal rooted at basePath.
// If basePath is empty, it defaults to ".fbxtools/journal".
func NewJournal(basePath string) *Journal {
	if basePath == "" {
		basePath = DefaultJournalDir
	}
	return &Journal{BasePath: basePath}
}

// vault opens the loam repository on first use, creating the directory.
func (j *Journal) vault() (*loam.TypedRepository[domain.Result], error) {
	j.once.Do(func() {
		repo, err := loam.Init(j.BasePath,
			loam.WithAutoInit(true),
			loam.WithVersioning(false),
			loam.WithDevSafety(false),
			loam.WithSerializer(".json", loamfs.NewJSONSerializer(true)),
		)
		if err != nil {
			j.err = fmt.Errorf("failed to open journal: %w", err)
			return
		}
		j.repo = loam.NewTypedRepository[domain.Result](repo)
	})
	return j.repo, j.err
}

func documentID(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid operation id %q", id)
	}
	return id + ".json", nil
}

// Save writes the result atomically.
func (j *Journal) Save(ctx context.Context, res *domain.Result) error {
	docID, err := documentID(res.ID)
	if err != nil {
		return err
	}
	repo, err := j.vault()
	if err != nil {
		return err
	}
	doc := &loam.DocumentModel[domain.Result]{ID: docID, Content: summary(res), Data: *res}
	if err := repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	return nil
}

func summary(res *domain.Result) string {
	line := fmt.Sprintf("%s -> %s: %s", res.Request.Source, res.Request.Destination, res.Status)
	if res.Message != "" {
		line += " (" + res.Message + ")"
	}
	return line
}

// Load reads a result back.
func (j *Journal) Load(ctx context.Context, id string) (*domain.Result, error) {
	docID, err := documentID(id)
	if err != nil {
		return nil, err
	}
	repo, err := j.vault()
	if err != nil {
		return nil, err
	}
	doc, err := repo.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to read journal entry: %w", err)
	}
	res := doc.Data
	return &res, nil
}

// Delete removes the entry for id. Unknown IDs are not an error.
func (j *Journal) Delete(ctx context.Context, id string) error {
	docID, err := documentID(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(j.BasePath, docID)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	repo, err := j.vault()
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}

// List returns the recorded IDs, oldest first.
func (j *Journal) List(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(j.BasePath); errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	repo, err := j.vault()
	if err != nil {
		return nil, err
	}
	docs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}

	results := make([]domain.Result, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.ID != "" {
			results = append(results, doc.Data)
		}
	}
	slices.SortStableFunc(results, func(a, b domain.Result) int {
		return a.StartedAt.Compare(b.StartedAt)
	})

	ids := make([]string, 0, len(results))
	for _, res := range results {
		ids = append(ids, res.ID)
	}
	return ids, nil
}
