package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/pipeline"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sizereport.

Besides commands and flags, the scripts complete column names for
report --cols (one entry at a time, after each comma) and the table
formats for report --format.

  $ source <(sizereport completion bash)
  $ sizereport completion zsh > "${fpath[1]}/_sizereport"
  $ sizereport completion fish > ~/.config/fish/completions/sizereport.fish
  PS> sizereport completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerReportCompletions adds dynamic completions for the report flags.
func registerReportCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("cols", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeCols(toComplete), cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return formatNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// completeCols completes the last entry of a comma-separated column list.
// Columns already listed are not offered again.
func completeCols(toComplete string) []string {
	prefix, last := "", toComplete
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	used := parseCols(prefix)

	var out []string
	for _, k := range transform.Kinds() {
		name := string(k)
		if strings.HasPrefix(name, last) && !slices.Contains(used, name) {
			out = append(out, prefix+name+"\t"+transform.Label(name))
		}
	}
	return out
}

// formatNames returns the supported table formats in name order.
func formatNames() []string {
	names := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}
