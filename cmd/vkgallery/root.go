package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"vkgallery/pkg/config"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "vkgallery",
	Short: "Turn VK album links into lightbox galleries",
	Long: `vkgallery finds a VK album link (https://vk.com/album<owner>_<album>) in an
HTML or Markdown document, fetches the album's photos through the photos.get
API and replaces the link with gallery markup ready for a lightbox script.

Options come from, highest priority first:
  - Command line flags
  - Environment variables (VKGALLERY_*, .env files included)
  - Configuration file
  - Default values`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetDefault(ui.NewPrinter(os.Stderr, quiet, noColor))

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintLogo()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./vkgallery.yaml or $HOME/.vkgallery.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`vkgallery {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig merges the global flags into flags and loads the configuration,
// then sets up the global logger from it
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if noColor {
		flags["no-color"] = true
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("vkgallery starting")

	return cfg, nil
}
