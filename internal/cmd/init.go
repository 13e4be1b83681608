package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cheerioskun/textmarker/internal/config"
)

var initGlobal bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default config file. Without --global it goes to
.textmarker/config.yaml in the current directory, which then takes
precedence over the global file for saved highlights.

An existing file is left untouched.

Examples:
  textmarker init
  textmarker init --global`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write ~/.config/textmarker/config.yaml instead")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := config.Workspace
	if initGlobal {
		target = config.Global
	}

	path, err := newStore(afero.NewOsFs()).Path(target)
	if err != nil {
		return err
	}

	written, err := config.WriteDefault(afero.NewOsFs(), path)
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if !written {
		fmt.Fprintf(out, "Configuration already exists: %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", path)
	return nil
}
