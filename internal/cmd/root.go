package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/utils"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 response does not race the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "textmarker [paths...]",
	Short: "Highlight words and patterns across text files",
	Long: `textmarker opens text files in a terminal viewer and keeps highlights on
every occurrence of the words and patterns you mark, in every open file.

Highlights can be saved to a workspace (.textmarker/config.yaml) or global
(~/.config/textmarker/config.yaml) config file and are restored on startup.

Examples:
  textmarker app.log
  textmarker ./logs --max-depth 2
  textmarker match ./logs --regex 'ERROR \w+'`,
	Version:           version,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
	RunE: runView,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .textmarker/config.yaml, then ~/.config/textmarker/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "write a debug log")
	rootCmd.PersistentFlags().String("log-file", utils.DefaultLogPath, "debug log path")
	rootCmd.PersistentFlags().Int("max-depth", 10, "maximum directory depth to scan")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("matching.ignore_case", defaults.Matching.IgnoreCase)
	viper.SetDefault("matching.whole_match", defaults.Matching.WholeMatch)
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("palette", defaults.Palette)

	viper.SetEnvPrefix("TEXTMARKER")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .textmarker/config.yaml (current directory)
		// 2. ~/.config/textmarker/config.yaml (user config)
		if _, err := os.Stat(config.WorkspaceConfigPath); err == nil {
			viper.SetConfigFile(config.WorkspaceConfigPath)
		} else if global, err := config.GlobalConfigPath(); err == nil {
			viper.SetConfigFile(global)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if !viper.GetBool("debug") {
		return nil
	}
	cleanup, err := utils.Init(viper.GetString("log_file"))
	if err != nil {
		return fmt.Errorf("starting debug log: %w", err)
	}
	logCleanup = cleanup
	utils.Info(utils.CatConfig, "starting", "version", version, "config", viper.ConfigFileUsed())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
