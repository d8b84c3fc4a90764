package sample_test

import (
	"testing"

	"github.com/aretw0/fbxtools/pkg/sample"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	doc := sample.Document()
	assert.Equal(t, uint32(7400), doc.Version)

	s, err := scene.New(doc)
	require.NoError(t, err)
	lod0, ok := s.FindNodeByName("Lod0")
	require.True(t, ok)
	mesh, ok := s.Mesh(lod0)
	require.True(t, ok)
	assert.Equal(t, "Lod0Mesh", mesh.Name)
	assert.Len(t, s.Materials(lod0), 1)
}

func TestBuilder_CountsDefinitions(t *testing.T) {
	b := sample.NewBuilder(7500)
	b.Model("A", "Mesh")
	b.Model("B", "Null")
	b.Mesh("AMesh")

	defs := b.Build().Find("Definitions")
	total, _ := defs.Child("Count").Properties[0].Int()
	assert.Equal(t, int64(4), total, "GlobalSettings plus three objects")

	counts := map[string]int64{}
	for _, ot := range defs.ChildrenNamed("ObjectType") {
		class, _ := ot.Properties[0].Str()
		counts[class], _ = ot.Child("Count").Properties[0].Int()
	}
	assert.Equal(t, map[string]int64{"GlobalSettings": 1, "Model": 2, "Geometry": 1}, counts)
}

func TestBuilder_UIDsAreUnique(t *testing.T) {
	b := sample.NewBuilder(7400)
	seen := map[int64]bool{}
	for _, name := range []string{"A", "B", "C"} {
		uid := b.Model(name, "Mesh")
		assert.False(t, seen[uid])
		seen[uid] = true
	}
	_, err := scene.New(b.Build())
	require.NoError(t, err)
}
