// Package batch runs lists of clone requests read from a manifest file.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fbxtools/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Manifest is the structure of a batch file:
//
//	jobs:
//	  - path: props/tree.fbx
//	    source: Lod0
//	    destination: Lod1
type Manifest struct {
	Jobs []domain.CloneRequest `yaml:"jobs" json:"jobs"`
}

// LoadManifest reads a YAML or JSON manifest. Relative document paths are
// resolved against the manifest's directory.
func LoadManifest(path string) ([]domain.CloneRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	base := filepath.Dir(path)
	for i := range m.Jobs {
		if m.Jobs[i].Path != "" && !filepath.IsAbs(m.Jobs[i].Path) {
			m.Jobs[i].Path = filepath.Join(base, m.Jobs[i].Path)
		}
	}
	return m.Jobs, nil
}
