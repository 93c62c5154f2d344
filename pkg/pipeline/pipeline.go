// Package pipeline runs size reports: it applies a column spec of named
// transforms to every file of a file group and renders the rows as a table.
//
// # Ordering
//
// Inside a group, execution is strictly serial. Files are processed in the
// order given and, for each file, columns run in column-spec order; every
// transform returns before the next one starts. Groups are independent and
// run concurrently; Runner.Run joins them and reports the first failure
// without cancelling the others.
//
// # Usage
//
//	runner := pipeline.NewRunner(transform.NewRegistry(), os.Stdout, logger)
//	opts := pipeline.Options{Cols: []string{"filepath", "origin", "gzip"}}
//	results, err := runner.Run(ctx, []pipeline.Group{
//	    {Cwd: "src/", Src: []string{"app.js", "util.js"}},
//	}, opts)
package pipeline

import (
	"fmt"

	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/table"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// Format constants for table output.
const (
	FormatText   = "text"
	FormatStyled = "styled"
)

// DefaultFormat is the table format used when none is set.
const DefaultFormat = FormatText

// ValidFormats is the set of supported table formats.
var ValidFormats = map[string]bool{
	FormatText:   true,
	FormatStyled: true,
}

// Group is a base directory plus the candidate files to report on.
// Paths are appended to Cwd by concatenation, so a non-empty Cwd must end
// with a separator.
type Group struct {
	Cwd string   `json:"cwd" toml:"cwd"`
	Src []string `json:"src" toml:"src"`
}

// =============================================================================
// Options - Report Configuration
// =============================================================================

// Options contains the configuration for a report run.
// It is read-only once a run starts.
type Options struct {
	// Cols is the ordered column spec (transform names).
	Cols []string `json:"cols,omitempty"`

	// Strict rejects unknown column names instead of rendering empty cells.
	Strict bool `json:"strict,omitempty"`

	// Format selects the table renderer: text (default) or styled.
	Format string `json:"format,omitempty"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: text, styled)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Cols) == 0 {
		o.Cols = append([]string(nil), transform.DefaultColumns...)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := transform.ValidateColumns(o.Cols, o.Strict); err != nil {
		return err
	}
	return ValidateFormat(o.Format)
}

// Header returns the header row for the configured columns.
func (o *Options) Header() table.Row {
	return table.Row(transform.Labels(o.Cols))
}

// render formats rows according to o.Format.
func (o *Options) render(rows []table.Row) string {
	if o.Format == FormatStyled {
		return table.RenderStyled(rows)
	}
	return table.Render(rows)
}

// =============================================================================
// Results
// =============================================================================

// GroupResult is the outcome of one file group.
type GroupResult struct {
	Group   Group       `json:"group"`
	Rows    []table.Row `json:"rows,omitempty"`    // header first
	Missing []string    `json:"missing,omitempty"` // dropped, not found
	Skipped bool        `json:"skipped,omitempty"` // no file survived
	Table   string      `json:"table,omitempty"`
}

// DataRows returns the rows without the header.
func (r *GroupResult) DataRows() []table.Row {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[1:]
}

// String implements fmt.Stringer for log output.
func (r *GroupResult) String() string {
	return fmt.Sprintf("group %q: %d rows, %d missing", r.Group.Cwd, len(r.DataRows()), len(r.Missing))
}
