package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cheerioskun/textmarker/internal/engine"
	"github.com/cheerioskun/textmarker/internal/utils"
	"github.com/cheerioskun/textmarker/internal/watcher"
	"github.com/cheerioskun/textmarker/ui"
)

func init() {
	rootCmd.Flags().Bool("no-watch", false, "do not reload files when they change on disk")
}

func runView(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	buffers, files, err := openBuffers(fs, args)
	if err != nil {
		return err
	}

	e := engine.New(cfg, buffers, newStore(fs))
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := ui.Deps{
		Buffers:    buffers,
		Operator:   e.Operator,
		Commands:   e.Commands,
		Modes:      e.Modes,
		ModeBroker: e.ModeBroker,
	}

	// Handle --no-watch flag (negated logic)
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if cfg.Watch.Enabled && !noWatch {
		w, err := watcher.New(watcher.Config{DebounceDur: cfg.Watch.Debounce})
		if err != nil {
			utils.Warning(utils.CatWatcher, "file watching disabled", "error", err)
		} else {
			defer w.Stop()
			for _, f := range files {
				if err := w.Add(f.Path); err != nil {
					utils.Warning(utils.CatWatcher, "not watching file", "path", f.Path, "error", err)
				}
			}
			deps.Changes = w.Start()
		}
	}

	model := ui.NewAppModel(ctx, deps)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
