package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/config"
	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/observability"
	"github.com/matzehuels/sizereport/pkg/pipeline"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	configPath string // explicit config file; sizereport.toml is used if present
	cols       string // comma-separated column spec, overrides the config
	cwd        string // base directory for files given as arguments
	strict     bool   // reject unknown column names
	format     string // table format: text or styled
	tempDir    string // directory for temporary artifacts
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Print a size table for each file group",
		Long: `Print a size table for each file group.

Files given as arguments form a single group relative to --cwd. Without
arguments, the groups are read from the config file (--config, or
sizereport.toml in the working directory).

Each column of the table is a transform:

  filepath, origin, removecomments, uglify, gzip, uglify_gzip,
  zstd, brotli, snappy, lz4, uglify_brotli

Files that do not exist are reported as warnings and left out of the table.
Arguments containing glob characters are expanded (** is supported).`,
		Example: `  sizereport report --cwd src/ app.js util.js
  sizereport report --cols filepath,origin,gzip,brotli 'dist/**/*.js'
  sizereport report --config build/sizes.toml --format styled`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&opts.cols, "cols", "", "comma-separated columns (default: filepath,origin,removecomments,uglify,uglify_gzip)")
	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "base directory for file arguments")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject unknown column names")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "table format: text (default), styled")
	cmd.Flags().StringVar(&opts.tempDir, "temp-dir", "", "directory for temporary files (default: system temp dir)")
	registerReportCompletions(cmd)

	return cmd
}

// reportPlan is a fully resolved report invocation.
type reportPlan struct {
	groups   []pipeline.Group
	opts     pipeline.Options
	registry []transform.Option
}

// planReport merges config file, flags and arguments into a reportPlan.
// Flags override the config file; arguments replace its groups.
func planReport(args []string, ro reportOpts) (*reportPlan, error) {
	cfg, err := loadConfig(ro.configPath)
	if err != nil {
		return nil, err
	}

	plan := &reportPlan{
		opts:     cfg.Options(),
		registry: cfg.RegistryOptions(),
	}
	if ro.cols != "" {
		plan.opts.Cols = parseCols(ro.cols)
	}
	if ro.strict {
		plan.opts.Strict = true
	}
	if ro.format != "" {
		plan.opts.Format = ro.format
	}
	if ro.tempDir != "" {
		plan.registry = append(plan.registry, transform.WithTempDir(ro.tempDir))
	}
	if err := plan.opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		g, err := config.ExpandGroup(pipeline.Group{Cwd: baseDir(ro.cwd), Src: args})
		if err != nil {
			return nil, err
		}
		plan.groups = []pipeline.Group{g}
		return plan, nil
	}

	plan.groups, err = cfg.Expand()
	if err != nil {
		return nil, err
	}
	if len(plan.groups) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no files to report: pass files as arguments or add [[group]] entries to %s", config.DefaultFile)
	}
	return plan, nil
}

// loadConfig loads the config at path. With an empty path it loads
// config.DefaultFile when that exists and returns an empty config otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err != nil {
			return &config.Config{}, nil
		}
		path = config.DefaultFile
	}
	return config.Load(path)
}

// runReport resolves the plan, runs every group and prints the tables to out.
func (c *CLI) runReport(ctx context.Context, out, errOut io.Writer, args []string, ro reportOpts) error {
	plan, err := planReport(args, ro)
	if err != nil {
		return err
	}

	c.Logger.Debug("report", "groups", len(plan.groups), "cols", plan.opts.Cols, "format", plan.opts.Format)
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetPipelineHooks(&debugHooks{logger: c.Logger})
		defer observability.Reset()
	}
	prog := newProgress(c.Logger)

	runner := c.newRunner(out, plan.registry...)
	results, err := runner.Run(ctx, plan.groups, plan.opts)
	if err != nil {
		return err
	}

	var files, reported int
	for _, res := range results {
		if res.Skipped {
			printWarning(errOut, "Skipped %s: no source files found", groupName(res.Group))
			continue
		}
		reported++
		files += len(res.DataRows())
	}
	prog.done(fmt.Sprintf("Reported %d files in %d groups", files, reported))
	return nil
}

// groupName returns a display name for a group.
func groupName(g pipeline.Group) string {
	if g.Cwd == "" {
		return "./"
	}
	return g.Cwd
}
