package transform

import (
	"github.com/matzehuels/sizereport/pkg/errors"
)

// Kind names a built-in transform. Column specs refer to transforms by these
// names.
type Kind string

const (
	FilePath       Kind = "filepath"
	Origin         Kind = "origin"
	RemoveComments Kind = "removecomments"
	Uglify         Kind = "uglify"
	Gzip           Kind = "gzip"
	UglifyGzip     Kind = "uglify_gzip"
	Zstd           Kind = "zstd"
	Brotli         Kind = "brotli"
	Snappy         Kind = "snappy"
	LZ4            Kind = "lz4"
	UglifyBrotli   Kind = "uglify_brotli"
)

// kinds lists every built-in transform in display order.
var kinds = []Kind{
	FilePath,
	Origin,
	RemoveComments,
	Uglify,
	Gzip,
	UglifyGzip,
	Zstd,
	Brotli,
	Snappy,
	LZ4,
	UglifyBrotli,
}

// labels are the header cells shown for each kind.
var labels = map[Kind]string{
	FilePath:       "File Path",
	Origin:         "Original",
	RemoveComments: "Remove Comments",
	Uglify:         "Uglify",
	Gzip:           "Gzip",
	UglifyGzip:     "Uglify & Gzip",
	Zstd:           "Zstd",
	Brotli:         "Brotli",
	Snappy:         "Snappy",
	LZ4:            "LZ4",
	UglifyBrotli:   "Uglify & Brotli",
}

// DefaultColumns is the column spec used when none is configured.
var DefaultColumns = []string{
	string(FilePath),
	string(Origin),
	string(RemoveComments),
	string(Uglify),
	string(UglifyGzip),
}

// Kinds returns all built-in kinds in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Known reports whether name is a built-in transform.
func Known(name string) bool {
	_, ok := labels[Kind(name)]
	return ok
}

// Label returns the header label for a column name. Unknown names are their
// own label.
func Label(name string) string {
	if l, ok := labels[Kind(name)]; ok {
		return l
	}
	return name
}

// Labels returns the header row for a column spec.
func Labels(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = Label(c)
	}
	return out
}

// ValidateColumns rejects an empty column spec. With strict set it also
// rejects names that are not built-in transforms; otherwise those resolve to
// empty cells at run time.
func ValidateColumns(cols []string, strict bool) error {
	if len(cols) == 0 {
		return errors.New(errors.ErrCodeInvalidColumn, "column spec is empty")
	}
	if !strict {
		return nil
	}
	for _, c := range cols {
		if !Known(c) {
			return errors.New(errors.ErrCodeInvalidColumn, "unknown column: %q", c)
		}
	}
	return nil
}
