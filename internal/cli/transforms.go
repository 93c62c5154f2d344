package cli

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/transform"
)

// transformInfo describes one built-in transform.
type transformInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

// listTransforms returns every built-in transform in display order.
func listTransforms() []transformInfo {
	kinds := transform.Kinds()
	out := make([]transformInfo, len(kinds))
	for i, k := range kinds {
		out[i] = transformInfo{
			Name:    string(k),
			Label:   transform.Label(string(k)),
			Default: slices.Contains(transform.DefaultColumns, string(k)),
		}
	}
	return out
}

// transformsCommand creates the transforms command.
func (c *CLI) transformsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transforms",
		Short: "List the columns a report can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeTransformsJSON(cmd.OutOrStdout())
			}
			printTransforms(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func printTransforms(w io.Writer) {
	printTitle(w, "Transforms")
	for _, t := range listTransforms() {
		label := t.Label
		if t.Default {
			label += StyleDim.Render(" (default)")
		}
		printKeyValue(w, t.Name, label)
	}
}

func writeTransformsJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listTransforms())
}
