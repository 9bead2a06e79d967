// Package assets resolves image directives to files.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/aretw0/autotutor/internal/logging"
)

// ErrNotFound is returned when an image name matches no file.
var ErrNotFound = errors.New("asset not found")

// extensions are tried in order for names given without one.
var extensions = []string{".svg", ".png", ".jpg", ".gif"}

// Asset is a resolved image reference.
type Asset struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// Resolver maps directive names to assets.
type Resolver interface {
	// Resolve reports false for unknown names. Callers render no image then.
	Resolve(name string) (Asset, bool)
}

// FS resolves images from a directory of a file system.
type FS struct {
	fsys   fs.FS
	dir    string
	logger *slog.Logger
}

// Option configures an FS resolver.
type Option func(*FS)

// WithLogger sets the logger used to report unknown images.
func WithLogger(logger *slog.Logger) Option {
	return func(r *FS) {
		r.logger = logger
	}
}

// New creates a resolver rooted at dir inside fsys.
func New(fsys fs.FS, dir string, opts ...Option) *FS {
	r := &FS{
		fsys:   fsys,
		dir:    dir,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Resolver.
func (r *FS) Resolve(name string) (Asset, bool) {
	clean, ok := cleanName(name)
	if !ok {
		r.logger.Warn("rejected image name", "name", name)
		return Asset{}, false
	}

	candidates := []string{clean}
	if path.Ext(clean) == "" {
		for _, ext := range extensions {
			candidates = append(candidates, clean+ext)
		}
	}

	for _, c := range candidates {
		p := path.Join(r.dir, c)
		info, err := fs.Stat(r.fsys, p)
		if err != nil || info.IsDir() {
			continue
		}
		return Asset{
			Name:        name,
			Path:        p,
			ContentType: contentType(c),
		}, true
	}

	r.logger.Debug("unknown image", "name", name)
	return Asset{}, false
}

// Read returns the bytes of a named image.
func (r *FS) Read(name string) (Asset, []byte, error) {
	a, ok := r.Resolve(name)
	if !ok {
		return Asset{}, nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := fs.ReadFile(r.fsys, a.Path)
	if err != nil {
		return Asset{}, nil, fmt.Errorf("failed to read asset %s: %w", a.Path, err)
	}
	return a, data, nil
}

// List returns the names of every image in the directory.
func (r *FS) List() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, r.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func cleanName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ Resolver = (*FS)(nil)
