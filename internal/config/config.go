// Package config loads fbxtools settings from a YAML or JSON file and layers
// command line flags over them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing default file
// is not an error.
const DefaultPath = "fbxtools.yaml"

// Journal backends.
const (
	JournalFile   = "file"
	JournalMemory = "memory"
	JournalRedis  = "redis"
	JournalNone   = "none"
)

// Config holds every tunable of the CLI and the servers.
type Config struct {
	// Format of documents saved in place: "binary" (default) or "ascii".
	Format        string `yaml:"format" mapstructure:"format"`
	SnapshotDir   string `yaml:"snapshot_dir" mapstructure:"snapshot_dir"`
	MeshSuffix    string `yaml:"mesh_suffix" mapstructure:"mesh_suffix"`
	LinkMaterials bool   `yaml:"link_materials" mapstructure:"link_materials"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	LogJSON  bool   `yaml:"log_json" mapstructure:"log_json"`

	Journal    string `yaml:"journal" mapstructure:"journal"`
	JournalDir string `yaml:"journal_dir" mapstructure:"journal_dir"`

	Redis  RedisConfig  `yaml:"redis" mapstructure:"redis"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// RedisConfig configures the redis journal and document locks.
type RedisConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Prefix  string        `yaml:"prefix" mapstructure:"prefix"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	LockTTL time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

// ServerConfig configures the HTTP and MCP servers.
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	Root    string `yaml:"root" mapstructure:"root"`
	MCPPort int    `yaml:"mcp_port" mapstructure:"mcp_port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MeshSuffix: "Mesh",
		LogLevel:   "info",
		Journal:    JournalFile,
		JournalDir: ".fbxtools/journal",
		Redis: RedisConfig{
			URL:     "redis://localhost:6379/0",
			Prefix:  "fbxtools:",
			LockTTL: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			MCPPort: 8081,
		},
	}
}

// Load reads path over the defaults. An empty path reads DefaultPath if it
// exists.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Decode applies raw settings onto cfg. Strings are accepted for numbers,
// booleans and durations ("30s").
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Overlay applies the settings named in changed, keyed like the settings
// file, onto cfg. Only explicitly set flags belong in changed, so a zero value
// such as link_materials=false still overrides the file. cfg is left as it
// was when the result does not validate.
func Overlay(cfg *Config, changed map[string]any) error {
	var next Config
	if err := copier.CopyWithOption(&next, cfg, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to apply flags: %w", err)
	}
	if err := Decode(changed, &next); err != nil {
		return fmt.Errorf("failed to apply flags: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Format {
	case "", "binary", "ascii":
	default:
		return fmt.Errorf("unknown format %q (want binary or ascii)", c.Format)
	}
	switch c.Journal {
	case JournalFile, JournalMemory, JournalRedis, JournalNone:
	default:
		return fmt.Errorf("unknown journal backend %q", c.Journal)
	}
	if c.MeshSuffix == "" {
		return errors.New("mesh_suffix must not be empty")
	}
	return nil
}
