package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/engine"
	"github.com/cheerioskun/textmarker/internal/export"
	"github.com/cheerioskun/textmarker/internal/location"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

var (
	matchPhrases []string
	matchRegexes []string
	matchSaved   bool
	matchCount   bool
	matchExport  string
	matchForce   bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match [paths...]",
	Short: "Print every range a highlight would cover",
	Long: `Apply highlights to files without opening the viewer and print each
covered range as path:line:column.

Phrases are matched literally; regexes use .NET-style syntax with
lookarounds. --saved adds the highlights saved in the workspace or global
config.

Examples:
  textmarker match app.log --phrase timeout
  textmarker match ./logs --regex 'ERROR \w+' --ignore-case
  textmarker match ./logs --saved --count
  textmarker match ./logs --phrase panic --export ./panics`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringArrayVarP(&matchPhrases, "phrase", "p", nil, "literal phrase to highlight (repeatable)")
	matchCmd.Flags().StringArrayVarP(&matchRegexes, "regex", "r", nil, "regular expression to highlight (repeatable)")
	matchCmd.Flags().BoolP("ignore-case", "i", false, "match case-insensitively")
	matchCmd.Flags().BoolP("whole-match", "w", false, "only match where no word character touches either side")
	matchCmd.Flags().BoolVar(&matchSaved, "saved", false, "also apply saved highlights")
	matchCmd.Flags().BoolVar(&matchCount, "count", false, "print only the number of ranges per file and highlight")
	matchCmd.Flags().StringVarP(&matchExport, "export", "o", "", "write highlighted lines under this directory instead of printing ranges")
	matchCmd.Flags().BoolVar(&matchForce, "force", false, "overwrite existing export files")
}

func runMatch(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	buffers, _, err := openBuffers(fs, args)
	if err != nil {
		return err
	}

	e := engine.New(cfg, buffers, newStore(fs))
	defer e.Close()

	// Flags override the configured matching mode
	ignoreCase, wholeMatch := cfg.Matching.IgnoreCase, cfg.Matching.WholeMatch
	if cmd.Flags().Changed("ignore-case") {
		ignoreCase, _ = cmd.Flags().GetBool("ignore-case")
	}
	if cmd.Flags().Changed("whole-match") {
		wholeMatch, _ = cmd.Flags().GetBool("whole-match")
	}

	if matchSaved {
		if _, err := e.Commands.SavedHighlightRestorer.Restore(); err != nil {
			return err
		}
	}
	for _, phrase := range matchPhrases {
		e.Operator.AddDecoration(pattern.NewString(phrase, ignoreCase, wholeMatch))
	}
	for _, expr := range matchRegexes {
		e.Operator.AddDecoration(pattern.NewRegex(expr, ignoreCase, wholeMatch))
	}

	decorations := e.Operator.Decorations()
	if len(decorations) == 0 {
		return errors.New("nothing to match: pass --phrase, --regex or --saved")
	}

	if matchExport != "" {
		if err := export.ValidateExportPath(fs, matchExport); err != nil {
			return err
		}
		summary, err := export.NewService(fs).Export(buffers.Files(), export.Options{
			DestinationPath:   matchExport,
			PreserveStructure: true,
			Overwrite:         matchForce,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d lines from %d files to %s\n",
			summary.LineCount, summary.FileCount, summary.DestinationPath)
		return nil
	}

	if matchCount {
		return writeCounts(cmd.OutOrStdout(), buffers.Files(), e.Locations, decorations)
	}
	return writeMatches(cmd.OutOrStdout(), buffers.Files(), e.Locations, decorations)
}

// writeMatches prints one line per covered range, in file then offset order.
func writeMatches(w io.Writer, files []*buffer.FileBuffer, locations *location.Registry, decorations []*decoration.Decoration) error {
	for _, f := range files {
		var spans []buffer.StyledRange
		for _, d := range decorations {
			for _, r := range locations.Ranges(f.ID(), d.ID) {
				spans = append(spans, buffer.StyledRange{Range: r, Handle: d.Style})
			}
		}
		sortSpans(spans)

		for _, s := range spans {
			line, col := f.PositionAt(s.Range.Start)
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s\n", f.Path(), line+1, col+1, f.Slice(s.Range)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCounts prints how many ranges each highlight covers in each file.
func writeCounts(w io.Writer, files []*buffer.FileBuffer, locations *location.Registry, decorations []*decoration.Decoration) error {
	for _, f := range files {
		for _, d := range decorations {
			n := len(locations.Ranges(f.ID(), d.ID))
			if n == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", f.Path(), d.Pattern, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortSpans(spans []buffer.StyledRange) {
	slices.SortStableFunc(spans, func(a, b buffer.StyledRange) int {
		if a.Range.Start != b.Range.Start {
			return a.Range.Start - b.Range.Start
		}
		return a.Range.End - b.Range.End
	})
}
