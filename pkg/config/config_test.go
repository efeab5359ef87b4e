package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.vk.com/method/photos.get", cfg.VK.APIURL)
	assert.Equal(t, 30*time.Second, cfg.VK.Timeout)
	assert.Equal(t, 3, cfg.VK.RequestsPerSecond)
	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, ".html", cfg.Output.Extension)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Nil(t, cfg.Gallery.Order)
	assert.Nil(t, cfg.Gallery.LinkType)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VKGALLERY_API_URL", "http://localhost:8080/method/photos.get")
	t.Setenv("VKGALLERY_API_VERSION", "5.131")
	t.Setenv("VKGALLERY_TIMEOUT", "5s")
	t.Setenv("VKGALLERY_REQUESTS_PER_SECOND", "10")
	t.Setenv("VKGALLERY_ORDER", "1")
	t.Setenv("VKGALLERY_LOOP", "false")
	t.Setenv("VKGALLERY_LINK_TYPE", "number")
	t.Setenv("VKGALLERY_CONTAINER_SELECTOR", "#album_container")
	t.Setenv("VKGALLERY_OUTPUT_DIR", "/tmp/galleries")
	t.Setenv("VKGALLERY_CONCURRENCY", "5")
	t.Setenv("VKGALLERY_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080/method/photos.get", cfg.VK.APIURL)
	assert.Equal(t, "5.131", cfg.VK.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.VK.Timeout)
	assert.Equal(t, 10, cfg.VK.RequestsPerSecond)
	require.NotNil(t, cfg.Gallery.Order)
	assert.Equal(t, 1, *cfg.Gallery.Order)
	require.NotNil(t, cfg.Gallery.Loop)
	assert.False(t, *cfg.Gallery.Loop)
	assert.Equal(t, "number", *cfg.Gallery.LinkType)
	assert.Equal(t, "#album_container", *cfg.Gallery.ContainerSelector)
	assert.Nil(t, cfg.Gallery.MinSize)
	assert.Equal(t, "/tmp/galleries", cfg.Output.Directory)
	assert.Equal(t, 5, cfg.Batch.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("VKGALLERY_TIMEOUT", "soon")
	t.Setenv("VKGALLERY_CONCURRENCY", "many")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VKGALLERY_TIMEOUT")
	assert.Contains(t, err.Error(), "VKGALLERY_CONCURRENCY")
	assert.Equal(t, 30*time.Second, cfg.VK.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vkgallery.yaml")
	content := `
vk:
  api_version: "5.131"
  timeout: 10s
gallery:
  link_type: image
  min_size: src
  lightbox_theme: dark
output:
  directory: ./out
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://api.vk.com/method/photos.get", cfg.VK.APIURL, "unset keys keep defaults")
	assert.Equal(t, "5.131", cfg.VK.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.VK.Timeout)
	require.NotNil(t, cfg.Gallery.LinkType)
	assert.Equal(t, "image", *cfg.Gallery.LinkType)
	assert.Equal(t, "src", *cfg.Gallery.MinSize)
	assert.Nil(t, cfg.Gallery.MaxSize)
	assert.Equal(t, "dark", cfg.Gallery.Extra["lightbox_theme"])
	assert.Equal(t, "./out", cfg.Output.Directory)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("vk: [unclosed"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad api url", mutate: func(c *Config) { c.VK.APIURL = "not a url" }, wantErr: "APIURL"},
		{name: "zero timeout", mutate: func(c *Config) { c.VK.Timeout = 0 }, wantErr: "Timeout"},
		{name: "unknown format", mutate: func(c *Config) { c.Input.Format = "pdf" }, wantErr: "Format"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Batch.Concurrency = 0 }, wantErr: "Concurrency"},
		{name: "extension without dot", mutate: func(c *Config) { c.Output.Extension = "html" }, wantErr: "Extension"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "Level"},
		{
			name: "gallery values are not validated",
			mutate: func(c *Config) {
				bogus := "huge"
				c.Gallery.MinSize = &bogus
				c.Gallery.LinkType = &bogus
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VK.Timeout = 0
	cfg.Batch.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Timeout")
	assert.Contains(t, err.Error(), "Concurrency")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"api-url":     "http://127.0.0.1/photos.get",
		"order":       1,
		"link-type":   "div",
		"selector":    "article",
		"output":      "dist",
		"concurrency": 8,
		"overwrite":   true,
	})

	assert.Equal(t, "http://127.0.0.1/photos.get", cfg.VK.APIURL)
	assert.Equal(t, 1, *cfg.Gallery.Order)
	assert.Equal(t, "div", *cfg.Gallery.LinkType)
	assert.Equal(t, "article", *cfg.Gallery.ContainerSelector)
	assert.Nil(t, cfg.Gallery.Loop)
	assert.Equal(t, "dist", cfg.Output.Directory)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.True(t, cfg.Output.OverwriteExisting)

	before := *cfg
	cfg.MergeCommandLineFlags(nil)
	assert.Equal(t, before, *cfg)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	linkType := "number"
	cfg.Gallery.LinkType = &linkType
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, cfg.VK, loaded.VK)
	require.NotNil(t, loaded.Gallery.LinkType)
	assert.Equal(t, "number", *loaded.Gallery.LinkType)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vkgallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  concurrency: 2\nlogging:\n  level: error\n"), 0644))
	t.Setenv("VKGALLERY_LOG_LEVEL", "warn")

	cfg, err := Load(path, map[string]interface{}{"concurrency": 6})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Batch.Concurrency, "flags beat the file")
	assert.Equal(t, "warn", cfg.Logging.Level, "env beats the file")

	_, err = Load(path, map[string]interface{}{"api-url": "::bad"})
	assert.Error(t, err)
}
