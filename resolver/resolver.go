package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/componentkit/errors"
)

// Spec is the part of a component spec the resolver needs.
type Spec struct {
	Package   string
	ConfigDir string
}

// Result describes a resolved package.
type Result struct {
	Name     string    `json:"name"`
	Kind     Kind      `json:"kind"`
	Dir      string    `json:"dir,omitempty"`      // set for directories
	Manifest *Manifest `json:"manifest,omitempty"` // set for directories
}

// Resolve returns the component name for spec.
func Resolve(spec Spec) (string, error) {
	r, err := ResolveSpec(spec)
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

// ResolveSpec is Resolve with the classification and manifest attached.
//
// An empty package names the directory in ConfigDir. A relative directory is
// joined to ConfigDir. A reference that looks like a path but is not an
// existing directory is returned unchanged.
func ResolveSpec(spec Spec) (*Result, error) {
	pkg := strings.TrimSpace(spec.Package)
	if pkg == "" {
		if spec.ConfigDir == "" {
			return nil, errors.Validation("package or config_dir is required")
		}
		return fromDirectory(spec.ConfigDir)
	}

	kind := Classify(pkg)
	switch kind {
	case KindTarball:
		return &Result{Name: tarballName(pkg), Kind: kind}, nil
	case KindGit, KindScoped:
		return &Result{Name: pkg, Kind: kind}, nil
	}

	dir := pkg
	if !filepath.IsAbs(dir) && spec.ConfigDir != "" {
		dir = filepath.Join(spec.ConfigDir, dir)
	}
	if isDir(dir) {
		return fromDirectory(dir)
	}
	return &Result{Name: pkg, Kind: kind}, nil
}

func fromDirectory(dir string) (*Result, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	return &Result{Name: m.Name, Kind: KindDirectory, Dir: dir, Manifest: m}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
