package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vkgallery/pkg/config"
	"vkgallery/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage vkgallery configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as 'vkgallery.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Show the effective configuration after merging every source.`,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# vkgallery configuration file
#
# Every option can also be set with a VKGALLERY_ environment variable,
# for example VKGALLERY_LINK_TYPE or VKGALLERY_OUTPUT_DIR.

vk:
  # photos.get endpoint
  api_url: "https://api.vk.com/method/photos.get"

  # API version sent as v; leave empty to omit it
  api_version: ""

  user_agent: "vkgallery/1.0"

  # Request timeout
  timeout: 30s

  # Requests per second; 0 disables throttling
  requests_per_second: 3

gallery:
  # 0: oldest first, 1: newest first
  order: 0

  # Let the lightbox loop through the album
  loop: true

  # number, image or div
  link_type: "div"

  # Size tiers, smallest to largest: src_small, src, src_big, src_xbig, src_xxbig
  min_size: "src_big"
  max_size: "src_xbig"

  # CSS selector of the element holding the album link
  container_selector: "div"

input:
  # auto, html or markdown
  format: "auto"

output:
  # Directory for rendered documents; empty writes a single document to stdout
  directory: ""
  extension: ".html"
  overwrite_existing: false

  # Write only the gallery markup instead of the whole document
  fragment_only: false

batch:
  # Documents rendered at once
  concurrency: 3

logging:
  # debug, info, warn, error or disabled
  level: "info"

  # text or json
  format: "text"

  # Log file path; empty logs to stderr
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "vkgallery.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created")
	ui.PrintInfo("Path", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{})
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	source := configFile
	if source == "" {
		source = config.FindConfigFile()
	}
	if source == "" {
		source = "(defaults and environment)"
	}
	ui.PrintInfo("Source", source)

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return fmt.Errorf("no configuration file found")
	}

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s is invalid:\n%w", path, err)
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Path", path)
	return nil
}
