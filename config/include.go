package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"

	"github.com/kbukum/componentkit/logger"
)

// Well-known document keys.
const (
	KeyIncludeFiles = "include_files"
	KeyConfigDir    = "config_dir"
	KeyComponents   = "components"
)

// Document is one configuration document produced by include expansion.
type Document struct {
	// Path is the file the document was read from; empty for an in-memory root.
	Path string
	// Dir is the absolute directory of Path; empty for an in-memory root.
	Dir    string
	Values map[string]any
}

// Reader parses one configuration file into a key/value tree.
type Reader interface {
	Read(path string) (map[string]any, error)
}

// ViperReader reads any format viper understands (yaml, json, toml...).
type ViperReader struct{}

func (ViperReader) Read(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v.AllSettings(), nil
}

// Expander walks include_files depth first.
type Expander struct {
	Reader     Reader
	FileSystem FileSystem
	Log        *logger.Logger
}

// NewExpander returns an expander reading through viper from the real filesystem.
func NewExpander(opts ...LoaderOption) *Expander {
	lc := newLoaderConfig(opts)
	return &Expander{Reader: lc.Reader, FileSystem: lc.FileSystem, Log: logger.WithComponent("config")}
}

// ExpandFile reads path and expands its includes. A root that cannot be read
// is an error; includes that cannot be read are skipped.
func (e *Expander) ExpandFile(path string) ([]Document, error) {
	abs, err := e.abs(path)
	if err != nil {
		return nil, err
	}
	values, err := e.Reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	root := Document{Path: path, Dir: filepath.Dir(abs), Values: withConfigDir(values, filepath.Dir(abs))}

	out := []Document{root}
	return e.walk(out, root.Values, []string{abs}), nil
}

// Expand returns [root, include1, include1's includes..., include2, ...].
// The in-memory root is returned unchanged, without a config_dir.
func (e *Expander) Expand(root map[string]any) []Document {
	out := []Document{{Values: root}}
	return e.walk(out, root, nil)
}

func (e *Expander) walk(out []Document, values map[string]any, stack []string) []Document {
	for _, inc := range stringList(values[KeyIncludeFiles]) {
		abs, err := e.abs(inc)
		if err != nil {
			e.warn("cannot resolve include", inc, err)
			continue
		}
		if slices.Contains(stack, abs) {
			e.warn("include cycle skipped", inc, nil)
			continue
		}

		child, err := e.Reader.Read(inc)
		if err != nil {
			e.warn("include not loaded", inc, err)
			continue
		}
		dir := filepath.Dir(abs)
		doc := Document{Path: inc, Dir: dir, Values: withConfigDir(child, dir)}
		out = append(out, doc)
		out = e.walk(out, doc.Values, append(stack, abs))
	}
	return out
}

// abs resolves relative paths against the working directory.
func (e *Expander) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	fs := e.FileSystem
	if fs == nil {
		fs = OSFileSystem{}
	}
	wd, err := fs.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

func (e *Expander) warn(msg, path string, err error) {
	if e.Log == nil {
		return
	}
	fields := logger.Fields("file", path)
	if err != nil {
		fields[logger.FieldError] = err.Error()
	}
	e.Log.Warn(msg, fields)
}

// Merge folds docs into v in order, later documents winning. The components
// lists are concatenated instead of replaced, and every component without a
// config_dir inherits its document's. config_dir and include_files keep the
// values of the first document.
func Merge(v *viper.Viper, docs []Document) error {
	var components []any
	for i, doc := range docs {
		values := make(map[string]any, len(doc.Values))
		for k, val := range doc.Values {
			values[k] = val
		}
		for _, c := range listOf(values[KeyComponents]) {
			components = append(components, inheritDir(c, doc.Dir))
		}
		delete(values, KeyComponents)
		if i > 0 {
			delete(values, KeyConfigDir)
			delete(values, KeyIncludeFiles)
		}
		if err := v.MergeConfigMap(values); err != nil {
			return fmt.Errorf("merging %s: %w", docName(doc, i), err)
		}
	}
	if len(components) == 0 {
		return nil
	}
	return v.MergeConfigMap(map[string]any{KeyComponents: components})
}

func docName(doc Document, i int) string {
	if doc.Path != "" {
		return doc.Path
	}
	return fmt.Sprintf("document %d", i)
}

func withConfigDir(values map[string]any, dir string) map[string]any {
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	if _, ok := out[KeyConfigDir]; !ok {
		out[KeyConfigDir] = dir
	}
	return out
}

func inheritDir(c any, dir string) any {
	m, ok := c.(map[string]any)
	if !ok || dir == "" {
		return c
	}
	if _, ok := m[KeyConfigDir]; ok {
		return m
	}
	cp := make(map[string]any, len(m)+1)
	for k, v := range m {
		cp[k] = v
	}
	cp[KeyConfigDir] = dir
	return cp
}

func listOf(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func stringList(v any) []string {
	switch l := v.(type) {
	case string:
		if l == "" {
			return nil
		}
		return []string{l}
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
