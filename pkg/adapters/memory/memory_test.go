package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/aretw0/fbxtools/pkg/adapters/memory"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, memory.NewJournal())
}

func TestJournal_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	j := memory.NewJournal()
	res := &domain.Result{ID: "a", Parents: []string{"Root"}}
	require.NoError(t, j.Save(ctx, res))
	res.Parents[0] = "changed"

	loaded, err := j.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Root"}, loaded.Parents)

	require.NoError(t, j.Save(ctx, &domain.Result{ID: "b"}))
	require.NoError(t, j.Save(ctx, &domain.Result{ID: "a"}))
	ids, _ := j.List(ctx)
	assert.Equal(t, []string{"a", "b"}, ids, "re-saving keeps the original position")
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	require.NoError(t, store.PutDocument("scene.fbx", testutils.SampleDocument(), fbx.FormatBinary))

	doc, format, err := store.Open(ctx, "scene.fbx")
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatBinary, format)
	assert.Equal(t, 1, store.Opens())

	require.NoError(t, store.Save(ctx, "copy.fbx", doc, fbx.FormatASCII))
	assert.Equal(t, 1, store.Saves())
	data, ok := store.Bytes("copy.fbx")
	require.True(t, ok)
	assert.Contains(t, string(data), "; FBX 7.4.0 project file")

	_, _, err = store.Open(ctx, "missing.fbx")
	assert.Error(t, err)
	assert.Equal(t, 2, store.Opens())

	boom := errors.New("disk full")
	store.FailSaves("scene.fbx", boom)
	assert.ErrorIs(t, store.Save(ctx, "scene.fbx", doc, fbx.FormatBinary), boom)
	assert.Equal(t, 1, store.Saves())
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	unlock, err := l.Lock(ctx, "scene.fbx", time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(short, "scene.fbx", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := l.Lock(ctx, "other.fbx", time.Second)
	require.NoError(t, err, "different keys do not contend")
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "double unlock is harmless")

	again, err := l.Lock(ctx, "scene.fbx", time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
