package messages

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path"
)

// Source loads catalog data.
type Source interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapSource serves an in-memory catalog.
type MapSource map[string]map[string]any

func (s MapSource) Load(_ context.Context) (map[string]map[string]any, error) {
	return maps.Clone(map[string]map[string]any(s)), nil
}

// FileSource reads a single YAML or JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (map[string]map[string]any, error) {
	parser, err := ParserForFile(s.Path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return parser.Parse(ctx, content)
}

// FSSource reads every catalog file in a directory of an fs.FS and merges
// them. Later files add languages and keys to earlier ones.
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s FSSource) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(s.FS, s.Dir)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	result := make(map[string]map[string]any)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parser, err := ParserForFile(entry.Name())
		if err != nil {
			continue
		}
		content, err := fs.ReadFile(s.FS, path.Join(s.Dir, entry.Name()))
		if err != nil {
			return nil, errors.Join(ErrReadFile, err)
		}
		data, err := parser.Parse(ctx, content)
		if err != nil {
			return nil, err
		}
		for lang, tree := range data {
			if existing, ok := result[lang]; ok {
				merge(existing, tree)
				continue
			}
			result[lang] = tree
		}
	}
	return result, nil
}

//go:embed locales/*.yaml
var defaultLocales embed.FS

// DefaultSource serves the built-in catalogs for the rule kinds of package verify.
func DefaultSource() Source {
	return FSSource{FS: defaultLocales, Dir: "locales"}
}

// merge copies src into dst, descending into nested maps present in both.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}
