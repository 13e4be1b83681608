package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cheerioskun/textmarker/internal/config"
)

var highlightsTarget string

// highlightsCmd represents the highlights command
var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "List saved highlights",
	Long: `List the saved highlights restored on startup. By default this is the
workspace list when the workspace config sets one, else the global list.

Examples:
  textmarker highlights
  textmarker highlights --target global`,
	Args: cobra.NoArgs,
	RunE: runHighlights,
}

func init() {
	rootCmd.AddCommand(highlightsCmd)

	highlightsCmd.Flags().StringVarP(&highlightsTarget, "target", "t", "", "config to read: global or workspace")
}

func runHighlights(cmd *cobra.Command, args []string) error {
	store := newStore(afero.NewOsFs())

	var (
		saved []config.SavedHighlight
		err   error
	)
	if highlightsTarget == "" {
		saved, err = store.Effective()
	} else {
		var target config.Target
		if target, err = config.ParseTarget(highlightsTarget); err != nil {
			return err
		}
		saved, _, err = store.Load(target)
	}
	if err != nil {
		return err
	}

	return writeHighlights(cmd.OutOrStdout(), saved)
}

// writeHighlights prints saved highlights as a table.
func writeHighlights(w io.Writer, saved []config.SavedHighlight) error {
	if len(saved) == 0 {
		_, err := fmt.Fprintln(w, "No saved highlights")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tEXPRESSION\tIGNORE CASE\tWHOLE MATCH")
	for _, h := range saved {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", h.Pattern.Type, h.Pattern.Expression, h.Pattern.IgnoreCase, h.Pattern.WholeMatch)
	}
	return tw.Flush()
}
