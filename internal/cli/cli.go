// Package cli implements the sizereport command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/buildinfo"
	"github.com/matzehuels/sizereport/pkg/minify"
	"github.com/matzehuels/sizereport/pkg/pipeline"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "sizereport"

	// defaultAddr is the listen address of the report server.
	defaultAddr = "127.0.0.1:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Sizereport measures how transforms change file sizes",
		Long:          `Sizereport measures the byte size of source files under a chain of transforms (comment removal, minification, compression) and prints one aligned table per file group.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.reportCommand())
	root.AddCommand(c.transformsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner writing tables to out.
func (c *CLI) newRunner(out io.Writer, opts ...transform.Option) *pipeline.Runner {
	opts = append([]transform.Option{transform.WithMinifier(minify.New())}, opts...)
	return pipeline.NewRunner(transform.NewRegistry(opts...), out, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseCols parses a comma-separated column list. Blank entries are dropped.
func parseCols(s string) []string {
	var cols []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// baseDir appends the trailing separator a group base directory needs.
func baseDir(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}
