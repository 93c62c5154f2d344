// Package compress provides the streaming compressors used to measure
// compressed file sizes.
//
// Each Algorithm maps to a streaming io.WriteCloser: bytes written are
// compressed into the destination writer, and Close flushes the trailer.
// Callers must Close the writer before measuring the destination.
package compress

import (
	"io"
	"sort"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/matzehuels/sizereport/pkg/errors"
)

// Algorithm names a compression codec.
type Algorithm string

const (
	Gzip   Algorithm = "gzip"
	Zstd   Algorithm = "zstd"
	Brotli Algorithm = "brotli"
	Snappy Algorithm = "snappy"
	LZ4    Algorithm = "lz4"
)

// DefaultLevel selects the codec's own default compression level.
const DefaultLevel = -1

// levelRange is the inclusive range of explicit levels a codec accepts.
type levelRange struct{ min, max int }

// Snappy and LZ4 have no levels.
var levelRanges = map[Algorithm]levelRange{
	Gzip:   {0, 9},
	Zstd:   {1, 22},
	Brotli: {0, 11},
}

var extensions = map[Algorithm]string{
	Gzip:   ".gz",
	Zstd:   ".zst",
	Brotli: ".br",
	Snappy: ".sz",
	LZ4:    ".lz4",
}

// Algorithms returns all supported algorithms in name order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(extensions))
	for a := range extensions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extension returns the conventional file extension for algo, including the
// leading dot, or "" for unknown algorithms.
func Extension(algo Algorithm) string {
	return extensions[algo]
}

// Valid reports whether algo is a supported algorithm.
func Valid(algo Algorithm) bool {
	_, ok := extensions[algo]
	return ok
}

// ValidateLevel reports whether level is usable with algo. DefaultLevel is
// always accepted; explicit levels must fall in the codec's range:
//   - gzip: 0-9 (default 6)
//   - zstd: 1-22, mapped onto the encoder's speed presets
//   - brotli: 0-11 (default 6)
//   - snappy, lz4: no explicit levels
func ValidateLevel(algo Algorithm, level int) error {
	if !Valid(algo) {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unsupported algorithm: %q", algo)
	}
	if level == DefaultLevel {
		return nil
	}
	lr, ok := levelRanges[algo]
	if !ok {
		return errors.New(errors.ErrCodeInvalidLevel, "%s has no compression levels", algo)
	}
	if level < lr.min || level > lr.max {
		return errors.New(errors.ErrCodeInvalidLevel, "%s level %d out of range %d-%d", algo, level, lr.min, lr.max)
	}
	return nil
}

// NewWriter returns a compressor writing to w. The level is checked with
// ValidateLevel.
func NewWriter(algo Algorithm, w io.Writer, level int) (io.WriteCloser, error) {
	if err := ValidateLevel(algo, level); err != nil {
		return nil, err
	}
	switch algo {
	case Gzip:
		if level == DefaultLevel {
			level = gzip.DefaultCompression
		}
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "gzip level %d", level)
		}
		return zw, nil
	case Zstd:
		var opts []zstd.EOption
		if level != DefaultLevel {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		zw, err := zstd.NewWriter(w, opts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "zstd level %d", level)
		}
		return zw, nil
	case Brotli:
		if level == DefaultLevel {
			level = brotli.DefaultCompression
		}
		return brotli.NewWriterLevel(w, level), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "unsupported algorithm: %q", algo)
	}
}

// Copy compresses everything read from r into w with algo and closes the
// compressor. It returns the number of uncompressed bytes consumed.
func Copy(algo Algorithm, w io.Writer, r io.Reader, level int) (int64, error) {
	zw, err := NewWriter(algo, w, level)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(zw, r)
	if err != nil {
		_ = zw.Close()
		return n, errors.Wrap(errors.ErrCodeCompress, err, "%s stream", algo)
	}
	if err := zw.Close(); err != nil {
		return n, errors.Wrap(errors.ErrCodeCompress, err, "%s flush", algo)
	}
	return n, nil
}
