package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/aretw0/fbxtools/pkg/adapters/file"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, file.NewJournal(t.TempDir()))
}

func TestJournal_DefaultPathAndMissingDir(t *testing.T) {
	assert.Equal(t, filepath.Join(".fbxtools", "journal"), file.NewJournal("").BasePath)

	j := file.NewJournal(filepath.Join(t.TempDir(), "missing"))
	ids, err := j.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestJournal_RejectsPathLikeIDs(t *testing.T) {
	j := file.NewJournal(t.TempDir())
	err := j.Save(context.Background(), &domain.Result{ID: "../escape"})
	assert.Error(t, err)
	_, err = j.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestJournal_EntriesAreReadableDocuments(t *testing.T) {
	dir := t.TempDir()
	j := file.NewJournal(dir)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"zz-late-name", "aa-early-name"} {
		res := domain.NewResult(id, domain.CloneRequest{Path: "scene.fbx", Source: "Lod0", Destination: "Lod1"}, start.Add(-time.Duration(i)*time.Second))
		require.NoError(t, j.Save(ctx, res))
	}

	ids, err := j.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa-early-name", "zz-late-name"}, ids, "listed by start time")

	data, err := os.ReadFile(filepath.Join(dir, "zz-late-name.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "zz-late-name", raw["id"])
	assert.Equal(t, "Lod0 -> Lod1: ok", raw["content"])

	loaded, err := j.Load(ctx, "zz-late-name")
	require.NoError(t, err)
	assert.True(t, loaded.StartedAt.Equal(start))
	assert.Equal(t, "Lod1", loaded.Request.Destination)
}

func TestDocumentStore_OpenAndSave(t *testing.T) {
	ctx := context.Background()
	store := file.NewDocumentStore()
	path := testutils.WriteSample(t)

	doc, format, err := store.Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatBinary, format)

	out := filepath.Join(filepath.Dir(path), "out.fbx")
	require.NoError(t, store.Save(ctx, out, doc, fbx.FormatASCII))
	_, format, err = store.Open(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatASCII, format)

	_, _, err = store.Open(ctx, filepath.Join(t.TempDir(), "nope.fbx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentStore_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := file.NewDocumentStore().Open(ctx, "whatever.fbx")
	assert.ErrorIs(t, err, context.Canceled)
}
