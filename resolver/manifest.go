package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/componentkit/errors"
)

// ManifestFiles are tried in order inside a component directory.
var ManifestFiles = []string{"component.yaml", "component.yml", "package.json"}

// Manifest is the descriptor found in a component directory. package.json is
// parsed with the same decoder since JSON is valid YAML.
type Manifest struct {
	Name         string   `yaml:"name" json:"name"`
	Version      string   `yaml:"version" json:"version"`
	Type         string   `yaml:"type" json:"type"`
	Description  string   `yaml:"description" json:"description"`
	Dependencies []string `yaml:"component_dependencies" json:"component_dependencies"`

	// Path is the manifest file that was read.
	Path string `yaml:"-" json:"-"`
}

// LoadManifest reads the first manifest found in dir.
func LoadManifest(dir string) (*Manifest, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		m, err := loadManifestFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, errors.NotFound("manifest", dir)
}

func loadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Validation(fmt.Sprintf("parsing %s: %v", path, err)).WithCause(err)
	}
	if m.Name == "" {
		return nil, errors.Validationf("manifest %s has no name", path)
	}
	m.Path = path
	return &m, nil
}
