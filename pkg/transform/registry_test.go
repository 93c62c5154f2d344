package transform

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/sizereport/pkg/compress"
	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/minify"
	"github.com/matzehuels/sizereport/pkg/observability"
	"github.com/matzehuels/sizereport/pkg/size"
	"github.com/matzehuels/sizereport/pkg/strip"
)

const sampleJS = `/**
 * Adds two numbers.
 */
function add(first, second) {
    // keep "//" inside strings
    var url = "http://example.com";
    return first + second; /* sum */
}



module.exports = add;
`

// squash is a predictable stand-in for a real minifier.
var squash = minify.Func(func(ctx context.Context, path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.Join(bytes.Fields(src), nil), nil
})

func setup(t *testing.T, content string) (dir, tmp string) {
	t.Helper()
	dir = t.TempDir()
	tmp = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir + string(os.PathSeparator), tmp
}

func gzipSize(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := compress.Copy(compress.Gzip, &buf, bytes.NewReader(data), compress.DefaultLevel); err != nil {
		t.Fatal(err)
	}
	return size.Format(int64(buf.Len()))
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("leftover temp artifact: %s", e.Name())
	}
}

func TestFilePath(t *testing.T) {
	reg := NewRegistry(WithMinifier(squash))
	got, err := reg.Measure(context.Background(), "filepath", "lib/a.js", "does/not/matter/")
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if got != "lib/a.js" {
		t.Errorf("filepath = %q, want %q", got, "lib/a.js")
	}
}

func TestOrigin(t *testing.T) {
	dir, tmp := setup(t, strings.Repeat("x", 2048))
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	got, err := reg.Measure(context.Background(), "origin", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if got != "2.00 KB" {
		t.Errorf("origin = %q, want %q", got, "2.00 KB")
	}
}

func TestOriginConcatenatesBaseDir(t *testing.T) {
	dir, tmp := setup(t, "abc")
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	// Without the trailing separator the concatenated path does not exist.
	if _, err := reg.Measure(context.Background(), "origin", "a.js", strings.TrimSuffix(dir, string(os.PathSeparator))); err == nil {
		t.Error("origin should fail when base dir lacks a trailing separator")
	}
}

func TestRemoveComments(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	got, err := reg.Measure(context.Background(), "removecomments", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	want := size.Format(int64(len(strip.Comments(sampleJS))))
	if got != want {
		t.Errorf("removecomments = %q, want %q", got, want)
	}
	assertEmptyDir(t, tmp)
}

func TestUglify(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	got, err := reg.Measure(context.Background(), "uglify", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	want := size.Format(int64(len(bytes.Join(bytes.Fields([]byte(sampleJS)), nil))))
	if got != want {
		t.Errorf("uglify = %q, want %q", got, want)
	}
	assertEmptyDir(t, tmp)
}

func TestGzip(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	got, err := reg.Measure(context.Background(), "gzip", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if want := gzipSize(t, []byte(sampleJS)); got != want {
		t.Errorf("gzip = %q, want %q", got, want)
	}
	assertEmptyDir(t, tmp)
}

func TestUglifyGzip(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	got, err := reg.Measure(context.Background(), "uglify_gzip", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	minified := bytes.Join(bytes.Fields([]byte(sampleJS)), nil)
	if want := gzipSize(t, minified); got != want {
		t.Errorf("uglify_gzip = %q, want %q", got, want)
	}
	assertEmptyDir(t, tmp)
}

func TestRealMinifier(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp))

	for _, col := range []string{"uglify", "uglify_gzip", "uglify_brotli"} {
		got, err := reg.Measure(context.Background(), col, "a.js", dir)
		if err != nil {
			t.Fatalf("%s error: %v", col, err)
		}
		if !strings.HasSuffix(got, " B") {
			t.Errorf("%s = %q, want a byte count for a small file", col, got)
		}
	}
	assertEmptyDir(t, tmp)
}

func TestEveryKindLeavesNoArtifacts(t *testing.T) {
	dir, tmp := setup(t, strings.Repeat(sampleJS, 20))
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			got, err := reg.Measure(context.Background(), string(k), "a.js", dir)
			if err != nil {
				t.Fatalf("Measure(%s) error: %v", k, err)
			}
			if got == "" {
				t.Errorf("Measure(%s) returned empty cell", k)
			}
			assertEmptyDir(t, tmp)
		})
	}
}

func TestUnknownColumn(t *testing.T) {
	reg := NewRegistry(WithMinifier(squash))
	got, err := reg.Measure(context.Background(), "bogus", "a.js", "")
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if got != "" {
		t.Errorf("unknown column = %q, want empty", got)
	}
}

func TestMinifierFailurePropagates(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	boom := errors.New(errors.ErrCodeMinify, "syntax error")
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(minify.Func(func(context.Context, string) ([]byte, error) {
		return nil, boom
	})))

	for _, col := range []string{"uglify", "uglify_gzip"} {
		_, err := reg.Measure(context.Background(), col, "a.js", dir)
		if !stderrors.Is(err, boom) {
			t.Errorf("%s error = %v, want %v", col, err, boom)
		}
	}
	assertEmptyDir(t, tmp)
}

func TestArtifactRemovedWhenMeasureFails(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	failing := Func(func(context.Context, string, string) (string, error) {
		return "", stderrors.New("stat failed")
	})
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash), WithTransform(Origin, failing))

	if _, err := reg.Measure(context.Background(), "gzip", "a.js", dir); err == nil {
		t.Fatal("gzip should fail when origin fails")
	}
	assertEmptyDir(t, tmp)
}

func TestMissingSourceFails(t *testing.T) {
	_, tmp := setup(t, "")
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	for _, col := range []string{"origin", "removecomments", "gzip", "zstd"} {
		if _, err := reg.Measure(context.Background(), col, "missing.js", tmp+"/"); err == nil {
			t.Errorf("%s on missing file should fail", col)
		}
	}
	assertEmptyDir(t, tmp)
}

func TestWithTransformAffectsComposite(t *testing.T) {
	dir, tmp := setup(t, sampleJS)
	var seen string
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash), WithTransform(Gzip, Func(func(ctx context.Context, path, dir string) (string, error) {
		seen = dir + path
		return "gz", nil
	})))

	got, err := reg.Measure(context.Background(), "uglify_gzip", "a.js", dir)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if got != "gz" {
		t.Errorf("uglify_gzip = %q, want override result", got)
	}
	if !strings.HasPrefix(filepath.Base(seen), artifactPrefix) || filepath.Dir(seen) != tmp {
		t.Errorf("gzip saw %q, want an artifact in %s", seen, tmp)
	}
	assertEmptyDir(t, tmp)
}

type recordingArtifacts struct {
	mu      sync.Mutex
	created []string
	removed []string
}

func (r *recordingArtifacts) OnArtifactCreate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, path)
}

func (r *recordingArtifacts) OnArtifactRemove(_ context.Context, path string, _ int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.removed = append(r.removed, path)
	}
}

func TestArtifactHooks(t *testing.T) {
	rec := &recordingArtifacts{}
	observability.SetArtifactHooks(rec)
	defer observability.Reset()

	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	if _, err := reg.Measure(context.Background(), "uglify_gzip", "a.js", dir); err != nil {
		t.Fatal(err)
	}

	// One artifact for the minified text, one for the gzip stream.
	if len(rec.created) != 2 {
		t.Fatalf("created %d artifacts, want 2: %v", len(rec.created), rec.created)
	}
	if len(rec.removed) != 2 {
		t.Fatalf("removed %d artifacts, want 2: %v", len(rec.removed), rec.removed)
	}
	if rec.created[0] == rec.created[1] {
		t.Error("artifact names should be unique")
	}
	// The gzip artifact is created after and removed before the minified one.
	if rec.removed[0] != rec.created[1] || rec.removed[1] != rec.created[0] {
		t.Errorf("unexpected removal order: created %v removed %v", rec.created, rec.removed)
	}
}

func TestLabels(t *testing.T) {
	got := Labels([]string{"filepath", "origin", "uglify_gzip", "mystery"})
	want := []string{"File Path", "Original", "Uglify & Gzip", "mystery"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Labels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKindsHaveLabels(t *testing.T) {
	for _, k := range Kinds() {
		if !Known(string(k)) {
			t.Errorf("kind %q has no label", k)
		}
	}
	for _, c := range DefaultColumns {
		if !Known(c) {
			t.Errorf("default column %q is unknown", c)
		}
	}
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name    string
		cols    []string
		strict  bool
		wantErr bool
	}{
		{"defaults", DefaultColumns, true, false},
		{"empty", nil, false, true},
		{"unknown lenient", []string{"filepath", "nope"}, false, false},
		{"unknown strict", []string{"filepath", "nope"}, true, true},
		{"duplicates allowed", []string{"gzip", "gzip"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumns(tt.cols, tt.strict)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumns() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidColumn) {
				t.Errorf("ValidateColumns() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidColumn)
			}
		})
	}
}

type ctxTag struct{}

type taggedArtifacts struct {
	observability.NoopArtifactHooks
	mu   sync.Mutex
	tags []any
}

func (h *taggedArtifacts) OnArtifactRemove(ctx context.Context, _ string, _ int64, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tags = append(h.tags, ctx.Value(ctxTag{}))
}

func TestArtifactRemoveUsesCallerContext(t *testing.T) {
	rec := &taggedArtifacts{}
	observability.SetArtifactHooks(rec)
	defer observability.Reset()

	dir, tmp := setup(t, sampleJS)
	reg := NewRegistry(WithTempDir(tmp), WithMinifier(squash))

	ctx := context.WithValue(context.Background(), ctxTag{}, "row a.js")
	for _, col := range []string{"uglify", "gzip", "uglify_brotli"} {
		if _, err := reg.Measure(ctx, col, "a.js", dir); err != nil {
			t.Fatalf("Measure(%s): %v", col, err)
		}
	}

	if len(rec.tags) != 4 {
		t.Fatalf("got %d removals, want 4", len(rec.tags))
	}
	for i, tag := range rec.tags {
		if tag != "row a.js" {
			t.Errorf("removal %d saw context value %v, want the caller's", i, tag)
		}
	}
	assertEmptyDir(t, tmp)
}
