package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/fbxtools"
	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "fbxtools version "+strings.TrimSpace(fbxtools.Version)+"\n", out)
}

func TestCloneAndInspect(t *testing.T) {
	path := testutils.WriteSample(t)
	journal := filepath.Join(t.TempDir(), "journal")
	cfgPath := filepath.Join(t.TempDir(), "fbxtools.yaml")
	testutils.WriteFile(t, cfgPath, "journal_dir: "+journal+"\n")

	out, err := execute(t, "--config", cfgPath, "clone", path, "Lod0", "Lod1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Cloned **Lod0** as **Lod1**")

	out, err = execute(t, "--config", cfgPath, "inspect", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "| Lod1 | Mesh | Lod1Mesh | - | Root |")

	_, err = execute(t, "--config", cfgPath, "clone", path, "Lod0", "Lod1")
	assert.Error(t, err)
}

func TestClone_RequiresThreeArguments(t *testing.T) {
	_, err := execute(t, "clone", "scene.fbx", "Lod0")
	assert.Error(t, err)
}

func TestLoadEnv_ExplicitFalseFlagOverridesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "fbxtools.yaml")
	testutils.WriteFile(t, cfgPath, "link_materials: true\nsnapshot_dir: snaps\n")
	t.Cleanup(func() {
		for name, value := range map[string]string{"config": "", "link-materials": "false"} {
			f := rootCmd.Flags().Lookup(name)
			f.Value.Set(value)
			f.Changed = false
		}
	})

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", cfgPath}))
	env, err := loadEnv(rootCmd)
	require.NoError(t, err)
	assert.True(t, env.Config.LinkMaterials)
	assert.Equal(t, "snaps", env.Config.SnapshotDir)

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", cfgPath, "--link-materials=false"}))
	env, err = loadEnv(rootCmd)
	require.NoError(t, err)
	assert.False(t, env.Config.LinkMaterials)
	assert.Equal(t, "snaps", env.Config.SnapshotDir, "unset flags keep the file value")
}
