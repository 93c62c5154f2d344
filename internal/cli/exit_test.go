package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/sizereport/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitInterrupted},
		{"wrapped canceled", fmt.Errorf("group src/: %w", context.Canceled), ExitInterrupted},
		{"invalid column", errors.New(errors.ErrCodeInvalidColumn, "unknown column: %q", "nope"), ExitUsage},
		{"invalid config", errors.New(errors.ErrCodeInvalidConfig, "decode"), ExitUsage},
		{"transform", errors.New(errors.ErrCodeTransform, "gzip on a.js"), ExitFailure},
		{
			"transform wrapping level",
			errors.Wrap(errors.ErrCodeTransform, errors.New(errors.ErrCodeInvalidLevel, "gzip level 42"), "gzip on a.js"),
			ExitFailure,
		},
		{"plain", stderrors.New("unknown flag: --colz"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	cause := stderrors.New("toml: line 1: unexpected EOF")
	err := errors.Wrap(errors.ErrCodeInvalidConfig, errors.Wrap(errors.ErrCodeInvalidConfig, cause, "decode"), "config sizes.toml")

	var buf bytes.Buffer
	PrintError(&buf, err)
	got := buf.String()

	if !strings.Contains(got, "config sizes.toml: decode: toml: line 1: unexpected EOF") {
		t.Errorf("PrintError() = %q, want message chain", got)
	}
	if !strings.Contains(got, "[INVALID_CONFIG]") {
		t.Errorf("PrintError() = %q, want code", got)
	}
	if strings.Count(got, "INVALID_CONFIG") != 1 {
		t.Errorf("PrintError() = %q, code should appear once", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("PrintError() = %q, want a single line", got)
	}
}

func TestPrintErrorQuiet(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, nil)
	PrintError(&buf, context.Canceled)
	if buf.Len() != 0 {
		t.Errorf("PrintError() wrote %q, want nothing", buf.String())
	}
}

func TestExitCodeFromReport(t *testing.T) {
	_, _, _, err := executeReport(t, "--strict", "--cols", "filepath,nope", "a.js")
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitUsage)
	}
}
