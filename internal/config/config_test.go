package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scannamer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Store.Region)
	assert.Equal(t, int32(100), cfg.Store.PageSize)
	assert.Equal(t, "claude", cfg.Namer.Provider)
	assert.Equal(t, 1000, cfg.Namer.MaxTokens)
	assert.Equal(t, 0.3, cfg.Namer.Temperature)
	assert.Equal(t, 2, cfg.Namer.MaxRetries)
	assert.Equal(t, 3, cfg.PDF.MaxPagesBeforeExtraction)
	assert.Equal(t, 3, cfg.PDF.ExtractionPages)
	assert.Equal(t, "ocrmypdf", cfg.PDF.OCRBinary)
	assert.Equal(t, []string{"raven_scan"}, cfg.Filter.Patterns)
	assert.Equal(t, 1, cfg.Run.Concurrency)
	assert.Equal(t, 100, cfg.Run.MaxFilenameLength)
	assert.False(t, cfg.Run.DryRun)
	assert.Empty(t, cfg.Audit.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SCANNAMER_STORE_BUCKET", "my-scans")
	t.Setenv("SCANNAMER_NAMER_PROVIDER", "openai")
	t.Setenv("SCANNAMER_NAMER_API_KEY", "sk-test")
	t.Setenv("SCANNAMER_NAMER_MAX_RETRIES", "5")
	t.Setenv("SCANNAMER_FILTER_PATTERNS", "raven_scan, scan_, img_")
	t.Setenv("SCANNAMER_RUN_DRY_RUN", "true")
	t.Setenv("SCANNAMER_NAMER_VISION_MODELS", "openai:gpt-5,claude:claude-next")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "my-scans", cfg.Store.Bucket)
	assert.Equal(t, "openai", cfg.Namer.Provider)
	assert.Equal(t, "sk-test", cfg.Namer.APIKey)
	assert.Equal(t, 5, cfg.Namer.MaxRetries)
	assert.Equal(t, []string{"raven_scan", "scan_", "img_"}, cfg.Filter.Patterns)
	assert.True(t, cfg.Run.DryRun)
	assert.Equal(t, []string{"openai:gpt-5", "claude:claude-next"}, cfg.Namer.VisionModels)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scannamer.yaml")
	content := []byte(`
store:
  bucket: file-bucket
  prefix: scans/
namer:
  provider: gemini
  api_key: file-key
run:
  concurrency: 3
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-bucket", cfg.Store.Bucket)
	assert.Equal(t, "scans/", cfg.Store.Prefix)
	assert.Equal(t, "gemini", cfg.Namer.Provider)
	assert.Equal(t, 3, cfg.Run.Concurrency)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.Namer.MaxTokens)
}

func TestLoad_ConfigFileNativeLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scannamer.yaml")
	content := []byte(`
filter:
  patterns:
    - raven_scan
    - scan_
    - img_
namer:
  vision_models:
    - openai:gpt-5
    - claude:claude-next
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"raven_scan", "scan_", "img_"}, cfg.Filter.Patterns)
	assert.Equal(t, []string{"openai:gpt-5", "claude:claude-next"}, cfg.Namer.VisionModels)
}

func TestLoad_EnvironmentBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scannamer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namer:\n  provider: gemini\n"), 0o600))

	t.Setenv("SCANNAMER_NAMER_PROVIDER", "xai")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xai", cfg.Namer.Provider)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load("/nonexistent/scannamer.yaml")
	assert.Error(t, err)
}

func validConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Bucket = "scans"
	cfg.Namer.Provider = "claude"
	cfg.Namer.APIKey = "sk-test"
	cfg.Namer.Temperature = 0.3
	cfg.PDF.MaxPagesBeforeExtraction = 3
	cfg.PDF.ExtractionPages = 3
	cfg.Run.Concurrency = 1
	cfg.Run.MaxFilenameLength = 100
	return cfg
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing bucket", func(c *config.Config) { c.Store.Bucket = "" }},
		{"missing provider", func(c *config.Config) { c.Namer.Provider = "" }},
		{"missing api key", func(c *config.Config) { c.Namer.APIKey = "" }},
		{"zero extraction pages", func(c *config.Config) { c.PDF.ExtractionPages = 0 }},
		{"zero page threshold", func(c *config.Config) { c.PDF.MaxPagesBeforeExtraction = 0 }},
		{"filename length too small", func(c *config.Config) { c.Run.MaxFilenameLength = 8 }},
		{"zero concurrency", func(c *config.Config) { c.Run.Concurrency = 0 }},
		{"temperature too high", func(c *config.Config) { c.Namer.Temperature = 2.5 }},
		{"negative temperature", func(c *config.Config) { c.Namer.Temperature = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNamerConfig_ProviderConfig(t *testing.T) {
	n := &config.NamerConfig{
		Provider:    "claude",
		APIKey:      "sk-test",
		Model:       "claude-sonnet-4-20250514",
		Endpoint:    "http://localhost:9999",
		TimeoutSecs: 45,
	}
	p := n.ProviderConfig()
	assert.Equal(t, "claude", p.Provider)
	assert.Equal(t, "sk-test", p.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", p.Model)
	assert.Equal(t, "http://localhost:9999", p.Endpoint)
	assert.Equal(t, 45, p.TimeoutSecs)
}
