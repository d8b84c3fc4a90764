package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractResult(id string) *domain.Result {
	now := time.Now().UTC().Truncate(time.Millisecond)
	res := domain.NewResult(id, domain.CloneRequest{Path: "scene.fbx", Source: "Lod0", Destination: "Lod1"}, now)
	res.Clone = "Lod1"
	res.Mesh = "Lod1Mesh"
	res.Parents = []string{"Root"}
	res.Output = "scene.fbx"
	res.FinishedAt = now.Add(25 * time.Millisecond)
	return res
}

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	id := "contract-op-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		res := contractResult(id)
		require.NoError(t, journal.Save(ctx, res), "Save should not return error")

		loaded, err := journal.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, res.ID, loaded.ID)
		assert.Equal(t, res.Request, loaded.Request)
		assert.Equal(t, domain.StatusOK, loaded.Status)
		assert.Equal(t, []string{"Root"}, loaded.Parents)
		assert.True(t, res.StartedAt.Equal(loaded.StartedAt), "timestamps should survive persistence")
	})

	t.Run("Failed Result", func(t *testing.T) {
		failedID := id + "-failed"
		res := contractResult(failedID).Fail(domain.ErrNameCollision)
		require.NoError(t, journal.Save(ctx, res))
		defer func() { _ = journal.Delete(ctx, failedID) }()

		loaded, err := journal.Load(ctx, failedID)
		require.NoError(t, err)
		assert.False(t, loaded.OK())
		assert.Equal(t, domain.StatusNotFound, loaded.Status)
		assert.Equal(t, domain.ErrNameCollision.Error(), loaded.Message)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := journal.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrOperationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, journal.Save(ctx, contractResult(id)))
		require.NoError(t, journal.Delete(ctx, id), "Delete should not return error")

		_, err := journal.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrOperationNotFound, "Load after Delete should return ErrOperationNotFound")
		assert.NoError(t, journal.Delete(ctx, id), "Delete of unknown ID should succeed")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = journal.Save(ctx, contractResult(id1))
		_ = journal.Save(ctx, contractResult(id2))
		defer func() {
			_ = journal.Delete(ctx, id1)
			_ = journal.Delete(ctx, id2)
		}()

		ids, err := journal.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
