package main

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fbxtools.yaml")
	testutils.WriteFile(t, cfgPath, "journal_dir: "+filepath.Join(dir, "journal")+"\nmesh_suffix: Geo\n")

	e, err := newEngine(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, e.Journal())

	sink := &testutils.CaptureSink{}
	e.RegisterLogSink(sink.Func())
	var finished []bool
	ok := e.AttemptClone(testutils.WriteSample(t), "Lod0", "Lod1", func(b bool) { finished = append(finished, b) })
	assert.True(t, ok)
	assert.Equal(t, []bool{true}, finished)
	assert.True(t, sink.Contains("New mesh is Lod1"))
}

func TestMustEngine_FallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	testutils.WriteFile(t, cfgPath, "format: obj\n")

	_, err := newEngine(cfgPath)
	assert.Error(t, err)
	assert.NotNil(t, mustEngine(cfgPath))
}
