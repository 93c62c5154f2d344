// Package transform implements the named size-producing operations that make
// up the columns of a size report.
//
// Every transform takes a file path and a base directory and returns the text
// of one table cell. The path is appended to the base directory by plain
// concatenation, so a non-empty base directory must end with a separator.
//
// Transforms that need intermediate output (stripped text, minified text,
// compressed streams) write it to a uniquely named temporary file, read its
// size, and delete it before returning, on success and failure alike.
//
// # Usage
//
//	reg := transform.NewRegistry(transform.WithLevel(compress.Gzip, 9))
//	cell, err := reg.Measure(ctx, "uglify_gzip", "app.js", "src/")
package transform

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/sizereport/pkg/compress"
	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/minify"
	"github.com/matzehuels/sizereport/pkg/size"
	"github.com/matzehuels/sizereport/pkg/strip"
)

// Transform produces one cell of a report row for the file dir+path.
type Transform interface {
	Measure(ctx context.Context, path, dir string) (string, error)
}

// Func adapts a plain function to the Transform interface.
type Func func(ctx context.Context, path, dir string) (string, error)

// Measure calls f.
func (f Func) Measure(ctx context.Context, path, dir string) (string, error) {
	return f(ctx, path, dir)
}

// empty is the transform behind unknown column names.
var empty = Func(func(context.Context, string, string) (string, error) {
	return "", nil
})

// Registry maps transform kinds to implementations. It is built once and
// read-only afterwards; it is safe for concurrent use as long as the
// configured minifier is.
type Registry struct {
	tempDir   string
	minifier  minify.Minifier
	levels    map[compress.Algorithm]int
	overrides map[Kind]Transform
	entries   map[Kind]Transform
}

// Option configures a Registry.
type Option func(*Registry)

// WithTempDir sets the directory for temporary artifacts (default os.TempDir).
func WithTempDir(dir string) Option {
	return func(r *Registry) {
		if dir != "" {
			r.tempDir = dir
		}
	}
}

// WithMinifier replaces the default tdewolff-backed minifier.
func WithMinifier(m minify.Minifier) Option {
	return func(r *Registry) {
		if m != nil {
			r.minifier = m
		}
	}
}

// WithLevel sets the compression level used for algo.
func WithLevel(algo compress.Algorithm, level int) Option {
	return func(r *Registry) {
		r.levels[algo] = level
	}
}

// level returns the configured level for algo, or compress.DefaultLevel.
func (r *Registry) level(algo compress.Algorithm) int {
	if l, ok := r.levels[algo]; ok {
		return l
	}
	return compress.DefaultLevel
}

// WithTransform replaces the implementation of a built-in kind. Composite
// transforms pick up the replacement: overriding Gzip also changes what
// UglifyGzip measures.
func WithTransform(kind Kind, t Transform) Option {
	return func(r *Registry) {
		if t != nil {
			r.overrides[kind] = t
		}
	}
}

// NewRegistry creates a registry with every built-in kind registered.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tempDir:   os.TempDir(),
		levels:    make(map[compress.Algorithm]int),
		overrides: make(map[Kind]Transform),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.minifier == nil {
		r.minifier = minify.New()
	}

	r.entries = map[Kind]Transform{
		FilePath:       Func(r.filePath),
		Origin:         Func(r.origin),
		RemoveComments: Func(r.removeComments),
		Uglify:         Func(r.uglify),
		Gzip:           r.compressed(compress.Gzip),
		UglifyGzip:     r.uglifyThen(Gzip),
		Zstd:           r.compressed(compress.Zstd),
		Brotli:         r.compressed(compress.Brotli),
		Snappy:         r.compressed(compress.Snappy),
		LZ4:            r.compressed(compress.LZ4),
		UglifyBrotli:   r.uglifyThen(Brotli),
	}
	for k, t := range r.overrides {
		r.entries[k] = t
	}
	return r
}

// Lookup returns the transform for a column name. Unknown names resolve to a
// transform that always yields an empty cell.
func (r *Registry) Lookup(name string) Transform {
	if t, ok := r.entries[Kind(name)]; ok {
		return t
	}
	return empty
}

// Measure runs the named transform on dir+path.
func (r *Registry) Measure(ctx context.Context, name, path, dir string) (string, error) {
	return r.Lookup(name).Measure(ctx, path, dir)
}

// TempDir returns the directory used for temporary artifacts.
func (r *Registry) TempDir() string {
	return r.tempDir
}

// =============================================================================
// Built-in transforms
// =============================================================================

func (r *Registry) filePath(_ context.Context, path, _ string) (string, error) {
	return path, nil
}

func (r *Registry) origin(_ context.Context, path, dir string) (string, error) {
	info, err := os.Stat(dir + path)
	if err != nil {
		return "", err
	}
	return size.Format(info.Size()), nil
}

func (r *Registry) removeComments(ctx context.Context, path, dir string) (string, error) {
	src, err := os.ReadFile(dir + path)
	if err != nil {
		return "", err
	}
	return r.measureBytes(ctx, filepath.Ext(path), []byte(strip.Comments(string(src))))
}

func (r *Registry) uglify(ctx context.Context, path, dir string) (string, error) {
	out, err := r.minifier.Minify(ctx, dir+path)
	if err != nil {
		return "", err
	}
	return r.measureBytes(ctx, filepath.Ext(path), out)
}

// measureBytes writes data to an artifact and returns its formatted size.
func (r *Registry) measureBytes(ctx context.Context, suffix string, data []byte) (string, error) {
	a, err := writeArtifact(ctx, r.tempDir, suffix, data)
	if err != nil {
		return "", err
	}
	defer a.remove(ctx)

	n, err := a.size()
	if err != nil {
		return "", err
	}
	return size.Format(n), nil
}

// compressed streams the file through algo into an artifact and measures the
// artifact with the registry's Origin entry.
func (r *Registry) compressed(algo compress.Algorithm) Transform {
	return Func(func(ctx context.Context, path, dir string) (string, error) {
		src, err := os.Open(dir + path)
		if err != nil {
			return "", err
		}
		defer src.Close()

		a, f, err := createArtifact(ctx, r.tempDir, compress.Extension(algo))
		if err != nil {
			return "", err
		}
		defer a.remove(ctx)

		if _, err := compress.Copy(algo, f, src, r.level(algo)); err != nil {
			_ = f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", errors.Wrap(errors.ErrCodeArtifact, err, "close temp file")
		}
		return r.entries[Origin].Measure(ctx, a.path, "")
	})
}

// uglifyThen minifies the file into an artifact and runs the registry's next
// entry on that artifact.
func (r *Registry) uglifyThen(next Kind) Transform {
	return Func(func(ctx context.Context, path, dir string) (string, error) {
		out, err := r.minifier.Minify(ctx, dir+path)
		if err != nil {
			return "", err
		}

		a, err := writeArtifact(ctx, r.tempDir, filepath.Ext(path), out)
		if err != nil {
			return "", err
		}
		defer a.remove(ctx)

		return r.entries[next].Measure(ctx, a.path, "")
	})
}
