// Package minify wraps tdewolff/minify as the minification service used by
// the uglify transforms.
//
// The media type is chosen from the file extension. Files with an unknown
// extension are treated as JavaScript, which is what the size report was
// built to measure.
package minify

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"

	"github.com/matzehuels/sizereport/pkg/errors"
)

// Minifier turns the file at path into minified source.
type Minifier interface {
	Minify(ctx context.Context, path string) ([]byte, error)
}

// Func adapts a plain function to the Minifier interface.
type Func func(ctx context.Context, path string) ([]byte, error)

// Minify calls f.
func (f Func) Minify(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// DefaultMediaType is used for extensions not listed in mediaTypes.
const DefaultMediaType = "application/javascript"

var mediaTypes = map[string]string{
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".cjs":  "application/javascript",
	".css":  "text/css",
	".html": "text/html",
	".htm":  "text/html",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".xml":  "text/xml",
}

// MediaType returns the media type used to minify path.
func MediaType(path string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return DefaultMediaType
}

// Service is the default Minifier backed by tdewolff/minify.
// It is safe for concurrent use.
type Service struct {
	m *tdminify.M
}

// New creates a Service with all supported media types registered.
func New() *Service {
	m := tdminify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return &Service{m: m}
}

// Minify reads path and returns its minified content. Syntax errors are
// returned as MINIFY_FAILED and are fatal to the calling transform.
func (s *Service) Minify(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMinify, err, "read %s", path)
	}

	out, err := s.m.Bytes(MediaType(path), src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMinify, err, "minify %s", path)
	}
	return out, nil
}

var _ Minifier = (*Service)(nil)
