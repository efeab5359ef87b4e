package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for vkgallery
type Config struct {
	// Remote photo service
	VK VKConfig `yaml:"vk" json:"vk"`

	// Gallery options; keys left out keep the gallery defaults
	Gallery GalleryConfig `yaml:"gallery" json:"gallery"`

	// How input documents are read
	Input InputConfig `yaml:"input" json:"input"`

	// Where rendered documents are written
	Output OutputConfig `yaml:"output" json:"output"`

	// Batch rendering
	Batch BatchConfig `yaml:"batch" json:"batch"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VKConfig holds settings for the photos.get endpoint
type VKConfig struct {
	APIURL            string        `yaml:"api_url" json:"api_url" validate:"required,url"`
	APIVersion        string        `yaml:"api_version" json:"api_version"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	RequestsPerSecond int           `yaml:"requests_per_second" json:"requests_per_second" validate:"min=0,max=100"`
}

// GalleryConfig mirrors the gallery options as a partial record. Nil fields
// are not set; unknown keys are kept in Extra and passed through.
type GalleryConfig struct {
	Order             *int                   `yaml:"order,omitempty" json:"order,omitempty"`
	Loop              *bool                  `yaml:"loop,omitempty" json:"loop,omitempty"`
	LinkType          *string                `yaml:"link_type,omitempty" json:"link_type,omitempty"`
	MinSize           *string                `yaml:"min_size,omitempty" json:"min_size,omitempty"`
	MaxSize           *string                `yaml:"max_size,omitempty" json:"max_size,omitempty"`
	ContainerSelector *string                `yaml:"container_selector,omitempty" json:"container_selector,omitempty"`
	Extra             map[string]interface{} `yaml:",inline" json:"extra,omitempty"`
}

// InputConfig controls how input documents are interpreted
type InputConfig struct {
	Format string `yaml:"format" json:"format" validate:"oneof=auto html markdown"`
}

// OutputConfig controls where rendered documents go
type OutputConfig struct {
	Directory         string `yaml:"directory" json:"directory"`
	Extension         string `yaml:"extension" json:"extension" validate:"required,startswith=."`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
	FragmentOnly      bool   `yaml:"fragment_only" json:"fragment_only"`
}

// BatchConfig controls concurrent rendering of several inputs
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=1,max=32"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level" validate:"oneof=debug info warn warning error disabled"`
	Format  string `yaml:"format" json:"format" validate:"omitempty,oneof=text json"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIURL:            "https://api.vk.com/method/photos.get",
			UserAgent:         "vkgallery/1.0",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 3,
		},
		Input: InputConfig{
			Format: "auto",
		},
		Output: OutputConfig{
			Extension: ".html",
		},
		Batch: BatchConfig{
			Concurrency: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromEnv overrides values from VKGALLERY_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("VKGALLERY_API_URL"); v != "" {
		c.VK.APIURL = v
	}
	if v := os.Getenv("VKGALLERY_API_VERSION"); v != "" {
		c.VK.APIVersion = v
	}
	if v := os.Getenv("VKGALLERY_USER_AGENT"); v != "" {
		c.VK.UserAgent = v
	}
	if v := os.Getenv("VKGALLERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKGALLERY_TIMEOUT: %w", err))
		} else {
			c.VK.Timeout = d
		}
	}
	if v := os.Getenv("VKGALLERY_REQUESTS_PER_SECOND"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKGALLERY_REQUESTS_PER_SECOND: %w", err))
		} else {
			c.VK.RequestsPerSecond = n
		}
	}

	if v := os.Getenv("VKGALLERY_ORDER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKGALLERY_ORDER: %w", err))
		} else {
			c.Gallery.Order = &n
		}
	}
	if v := os.Getenv("VKGALLERY_LOOP"); v != "" {
		b := strings.EqualFold(v, "true")
		c.Gallery.Loop = &b
	}
	if v := os.Getenv("VKGALLERY_LINK_TYPE"); v != "" {
		c.Gallery.LinkType = &v
	}
	if v := os.Getenv("VKGALLERY_MIN_SIZE"); v != "" {
		c.Gallery.MinSize = &v
	}
	if v := os.Getenv("VKGALLERY_MAX_SIZE"); v != "" {
		c.Gallery.MaxSize = &v
	}
	if v := os.Getenv("VKGALLERY_CONTAINER_SELECTOR"); v != "" {
		c.Gallery.ContainerSelector = &v
	}

	if v := os.Getenv("VKGALLERY_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("VKGALLERY_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKGALLERY_CONCURRENCY: %w", err))
		} else {
			c.Batch.Concurrency = n
		}
	}
	if v := os.Getenv("VKGALLERY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the default locations; finding nothing there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile returns the first existing default config location
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"vkgallery.yaml",
		".vkgallery.yaml",
		".vkgallery.yml",
		filepath.Join(home, ".config", "vkgallery", "config.yaml"),
		filepath.Join(home, ".vkgallery.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: failed %q constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeCommandLineFlags overlays values set on the command line. Only keys
// present in flags are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["api-url"].(string); ok && v != "" {
		c.VK.APIURL = v
	}
	if v, ok := flags["api-version"].(string); ok {
		c.VK.APIVersion = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.VK.Timeout = v
	}
	if v, ok := flags["order"].(int); ok {
		c.Gallery.Order = &v
	}
	if v, ok := flags["loop"].(bool); ok {
		c.Gallery.Loop = &v
	}
	if v, ok := flags["link-type"].(string); ok {
		c.Gallery.LinkType = &v
	}
	if v, ok := flags["min-size"].(string); ok {
		c.Gallery.MinSize = &v
	}
	if v, ok := flags["max-size"].(string); ok {
		c.Gallery.MaxSize = &v
	}
	if v, ok := flags["selector"].(string); ok {
		c.Gallery.ContainerSelector = &v
	}
	if v, ok := flags["format"].(string); ok && v != "" {
		c.Input.Format = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["overwrite"].(bool); ok {
		c.Output.OverwriteExisting = v
	}
	if v, ok := flags["fragment-only"].(bool); ok {
		c.Output.FragmentOnly = v
	}
	if v, ok := flags["concurrency"].(int); ok && v > 0 {
		c.Batch.Concurrency = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["no-color"].(bool); ok {
		c.Logging.NoColor = v
	}
}

// Load loads configuration from all sources.
// Precedence: command line flags > environment (.env included) > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".vkgallery.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
