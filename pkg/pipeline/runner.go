package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/observability"
	"github.com/matzehuels/sizereport/pkg/table"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// Runner executes size reports.
//
// The Runner holds no per-run state besides the output lock, so one Runner can
// serve many runs, including concurrent ones.
type Runner struct {
	Registry *transform.Registry
	Logger   *log.Logger
	Out      io.Writer

	mu sync.Mutex // serializes table writes to Out
}

// NewRunner creates a runner.
// A nil registry gets the default registry, a nil writer discards tables and
// a nil logger uses log.Default().
func NewRunner(reg *transform.Registry, out io.Writer, logger *log.Logger) *Runner {
	if reg == nil {
		reg = transform.NewRegistry()
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Logger:   logger,
		Out:      out,
	}
}

// Run processes every group and returns their results in input order.
//
// Groups run concurrently. A failing group does not stop the others; once all
// groups have finished, Run returns the first failure. Results of groups that
// failed are nil.
func (r *Runner) Run(ctx context.Context, groups []Group, opts Options) ([]*GroupResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	results := make([]*GroupResult, len(groups))
	var eg errgroup.Group
	for i, g := range groups {
		eg.Go(func() error {
			res, err := r.RunGroup(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("group %q: %w", g.Cwd, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		r.Logger.Debug("size report failed", "err", err)
		return results, err
	}
	return results, nil
}

// RunGroup processes a single group: it drops missing files, collects one
// row per remaining file in order, renders the table and writes it to Out.
//
// A group without any existing file is skipped: nothing is written and the
// result has Skipped set. The first transform failure aborts the group.
func (r *Runner) RunGroup(ctx context.Context, g Group, opts Options) (*GroupResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	files, missing := r.Existing(g)
	res := &GroupResult{Group: g, Missing: missing}
	if len(files) == 0 {
		r.Logger.Debug("no files to report", "cwd", g.Cwd, "missing", len(missing))
		res.Skipped = true
		return res, nil
	}

	hooks := observability.Pipeline()
	hooks.OnGroupStart(ctx, g.Cwd, len(files))
	start := time.Now()

	r.Logger.Info("Computing ...", "files", len(files))

	rows := make([]table.Row, 0, len(files)+1)
	rows = append(rows, opts.Header())
	for _, path := range files {
		row, err := r.collect(ctx, opts.Cols, path, g.Cwd)
		if err != nil {
			hooks.OnGroupComplete(ctx, g.Cwd, len(rows), time.Since(start), err)
			return nil, err
		}
		rows = append(rows, row)
	}

	res.Rows = rows
	res.Table = opts.render(rows)
	r.write(res.Table)

	hooks.OnGroupComplete(ctx, g.Cwd, len(rows), time.Since(start), nil)
	r.Logger.Debug("group complete", "cwd", g.Cwd, "rows", len(rows)-1, "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// Existing splits the group's files into those found on disk and those
// missing. Every missing file is logged as a warning.
func (r *Runner) Existing(g Group) (found, missing []string) {
	for _, path := range g.Src {
		if _, err := os.Stat(g.Cwd + path); err != nil {
			r.Logger.Warnf("Source file \"%s\" not found.", path)
			missing = append(missing, path)
			continue
		}
		found = append(found, path)
	}
	return found, missing
}

// CollectRow runs every column on cwd+path, in order, and returns the row.
// The row always has exactly len(cols) cells. The first failing column aborts
// the row with a TRANSFORM_FAILED error.
func (r *Runner) CollectRow(ctx context.Context, cols []string, path, cwd string) (table.Row, error) {
	row := make(table.Row, 0, len(cols))
	hooks := observability.Pipeline()

	for _, col := range cols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hooks.OnTransformStart(ctx, col, path)
		start := time.Now()
		cell, err := r.Registry.Measure(ctx, col, path, cwd)
		hooks.OnTransformComplete(ctx, col, path, time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTransform, err, "column %s on %s", col, cwd+path)
		}

		row = append(row, cell)
	}
	return row, nil
}

// collect wraps CollectRow with row hooks.
func (r *Runner) collect(ctx context.Context, cols []string, path, cwd string) (table.Row, error) {
	hooks := observability.Pipeline()
	hooks.OnRowStart(ctx, path)
	start := time.Now()

	row, err := r.CollectRow(ctx, cols, path, cwd)
	hooks.OnRowComplete(ctx, path, time.Since(start), err)
	return row, err
}

// write prints a rendered table followed by a newline.
func (r *Runner) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.Out, s)
}
