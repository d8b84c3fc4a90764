package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "fbxtools.yaml", `
format: ascii
snapshot_dir: snaps
link_materials: "true"
journal: redis
redis:
  url: redis://cache:6379/2
  ttl: 24h
  lock_ttl: 10s
server:
  addr: ":9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ascii", cfg.Format)
	assert.Equal(t, "snaps", cfg.SnapshotDir)
	assert.True(t, cfg.LinkMaterials)
	assert.Equal(t, JournalRedis, cfg.Journal)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	// Untouched settings keep their defaults.
	assert.Equal(t, "Mesh", cfg.MeshSuffix)
	assert.Equal(t, "fbxtools:", cfg.Redis.Prefix)
	assert.Equal(t, 8081, cfg.Server.MCPPort)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "fbxtools.json", `{"mesh_suffix": "Geo", "server": {"mcp_port": "9100"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Geo", cfg.MeshSuffix)
	assert.Equal(t, 9100, cfg.Server.MCPPort)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "formatt: ascii\n"))
		assert.ErrorContains(t, err, "formatt")
	})
	t.Run("bad format", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "format: obj\n"))
		assert.ErrorContains(t, err, "unknown format")
	})
	t.Run("bad journal", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "journal: s3\n"))
		assert.ErrorContains(t, err, "unknown journal backend")
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "format: [\n"))
		assert.Error(t, err)
	})
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOverlay(t *testing.T) {
	cfg := Default()
	cfg.SnapshotDir = "from-file"
	cfg.Redis.URL = "redis://file:6379/0"

	err := Overlay(&cfg, map[string]any{"format": "binary", "log_level": "debug", "link_materials": true})
	require.NoError(t, err)

	assert.Equal(t, "binary", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LinkMaterials)
	assert.Equal(t, "from-file", cfg.SnapshotDir)
	assert.Equal(t, "redis://file:6379/0", cfg.Redis.URL)
	assert.Equal(t, "Mesh", cfg.MeshSuffix)

	assert.Error(t, Overlay(&cfg, map[string]any{"journal": "tape"}))
	assert.Equal(t, JournalFile, cfg.Journal, "a rejected overlay leaves cfg untouched")
	assert.Error(t, Overlay(&cfg, map[string]any{"colour": "red"}))
}

func TestOverlay_ZeroValuesOverrideFile(t *testing.T) {
	cfg := Default()
	cfg.LinkMaterials = true
	cfg.SnapshotDir = "from-file"

	require.NoError(t, Overlay(&cfg, map[string]any{"link_materials": false, "snapshot_dir": ""}))
	assert.False(t, cfg.LinkMaterials)
	assert.Empty(t, cfg.SnapshotDir)

	require.NoError(t, Overlay(&cfg, nil))
	assert.Equal(t, "Mesh", cfg.MeshSuffix)
}
