package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the immutable configuration snapshot for one run. It is
// resolved once at startup (defaults, then optional config file, then
// environment) and never re-read mid-run.
type Config struct {
	Store  StoreConfig
	Namer  NamerConfig
	PDF    PDFConfig
	Filter FilterConfig
	Run    RunConfig
	Audit  AuditConfig
	Log    LogConfig
}

// StoreConfig holds the S3 file-store settings.
type StoreConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
	PageSize  int32  `mapstructure:"page_size"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// NamerConfig holds LLM title-generation settings.
type NamerConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	Endpoint     string  `mapstructure:"endpoint"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxRetries   int     `mapstructure:"max_retries"`
	SystemPrompt string  `mapstructure:"system_prompt"`
	UserPrompt   string  `mapstructure:"user_prompt"`

	// VisionModels lists additional "provider:model" pairs to mark as
	// vision-capable on top of the built-in registry.
	VisionModels []string `mapstructure:"vision_models"`
}

// ProviderConfig returns the provider settings slice of the namer config.
func (n *NamerConfig) ProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Provider:    n.Provider,
		APIKey:      n.APIKey,
		Model:       n.Model,
		Endpoint:    n.Endpoint,
		TimeoutSecs: n.TimeoutSecs,
	}
}

// PDFConfig holds content-preparation settings.
type PDFConfig struct {
	MaxPagesBeforeExtraction int    `mapstructure:"max_pages_before_extraction"`
	ExtractionPages          int    `mapstructure:"extraction_pages"`
	OCRBinary                string `mapstructure:"ocr_binary"`
}

// FilterConfig holds the generic-name pattern set.
type FilterConfig struct {
	Patterns []string `mapstructure:"patterns"`
}

// RunConfig holds per-run behavior switches. CLI flags override these after
// the snapshot is loaded, before the run starts.
type RunConfig struct {
	DryRun            bool   `mapstructure:"dry_run"`
	ForceVision       bool   `mapstructure:"force_vision"`
	EnableOCREmbed    bool   `mapstructure:"enable_ocr_embedding"`
	Concurrency       int    `mapstructure:"concurrency"`
	MaxFilenameLength int    `mapstructure:"max_filename_length"`
	ReportPath        string `mapstructure:"report_path"`
}

// AuditConfig holds the audit log settings. An empty path disables the
// audit store.
type AuditConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from an optional config file and environment
// variables with the SCANNAMER_ prefix. Environment values override file
// values; file values override defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCANNAMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Store defaults
	v.SetDefault("store.region", "us-east-1")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.endpoint", "")
	v.SetDefault("store.prefix", "")
	v.SetDefault("store.page_size", 100)

	// Namer defaults
	v.SetDefault("namer.provider", "claude")
	v.SetDefault("namer.api_key", "")
	v.SetDefault("namer.model", "")
	v.SetDefault("namer.endpoint", "")
	v.SetDefault("namer.timeout_secs", 60)
	v.SetDefault("namer.max_tokens", 1000)
	v.SetDefault("namer.temperature", 0.3)
	v.SetDefault("namer.max_retries", 2)
	v.SetDefault("namer.system_prompt", "")
	v.SetDefault("namer.user_prompt", "")
	v.SetDefault("namer.vision_models", "")

	// PDF defaults
	v.SetDefault("pdf.max_pages_before_extraction", 3)
	v.SetDefault("pdf.extraction_pages", 3)
	v.SetDefault("pdf.ocr_binary", "ocrmypdf")

	// Filter defaults
	v.SetDefault("filter.patterns", "raven_scan")

	// Run defaults
	v.SetDefault("run.dry_run", false)
	v.SetDefault("run.force_vision", false)
	v.SetDefault("run.enable_ocr_embedding", false)
	v.SetDefault("run.concurrency", 1)
	v.SetDefault("run.max_filename_length", 100)
	v.SetDefault("run.report_path", "")

	// Audit defaults
	v.SetDefault("audit.path", "")

	// Log defaults
	v.SetDefault("log.verbose", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"store.region":                    "SCANNAMER_STORE_REGION",
		"store.bucket":                    "SCANNAMER_STORE_BUCKET",
		"store.endpoint":                  "SCANNAMER_STORE_ENDPOINT",
		"store.access_key":                "SCANNAMER_STORE_ACCESS_KEY",
		"store.secret_key":                "SCANNAMER_STORE_SECRET_KEY",
		"store.prefix":                    "SCANNAMER_STORE_PREFIX",
		"store.page_size":                 "SCANNAMER_STORE_PAGE_SIZE",
		"namer.provider":                  "SCANNAMER_NAMER_PROVIDER",
		"namer.api_key":                   "SCANNAMER_NAMER_API_KEY",
		"namer.model":                     "SCANNAMER_NAMER_MODEL",
		"namer.endpoint":                  "SCANNAMER_NAMER_ENDPOINT",
		"namer.timeout_secs":              "SCANNAMER_NAMER_TIMEOUT_SECS",
		"namer.max_tokens":                "SCANNAMER_NAMER_MAX_TOKENS",
		"namer.temperature":               "SCANNAMER_NAMER_TEMPERATURE",
		"namer.max_retries":               "SCANNAMER_NAMER_MAX_RETRIES",
		"namer.system_prompt":             "SCANNAMER_NAMER_SYSTEM_PROMPT",
		"namer.user_prompt":               "SCANNAMER_NAMER_USER_PROMPT",
		"namer.vision_models":             "SCANNAMER_NAMER_VISION_MODELS",
		"pdf.max_pages_before_extraction": "SCANNAMER_PDF_MAX_PAGES_BEFORE_EXTRACTION",
		"pdf.extraction_pages":            "SCANNAMER_PDF_EXTRACTION_PAGES",
		"pdf.ocr_binary":                  "SCANNAMER_PDF_OCR_BINARY",
		"filter.patterns":                 "SCANNAMER_FILTER_PATTERNS",
		"run.dry_run":                     "SCANNAMER_RUN_DRY_RUN",
		"run.force_vision":                "SCANNAMER_RUN_FORCE_VISION",
		"run.enable_ocr_embedding":        "SCANNAMER_RUN_ENABLE_OCR_EMBEDDING",
		"run.concurrency":                 "SCANNAMER_RUN_CONCURRENCY",
		"run.max_filename_length":         "SCANNAMER_RUN_MAX_FILENAME_LENGTH",
		"run.report_path":                 "SCANNAMER_RUN_REPORT_PATH",
		"audit.path":                      "SCANNAMER_AUDIT_PATH",
		"log.verbose":                     "SCANNAMER_LOG_VERBOSE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	cfg.Store = StoreConfig{
		Region:    v.GetString("store.region"),
		Bucket:    v.GetString("store.bucket"),
		Endpoint:  v.GetString("store.endpoint"),
		AccessKey: v.GetString("store.access_key"),
		SecretKey: v.GetString("store.secret_key"),
		Prefix:    v.GetString("store.prefix"),
		PageSize:  v.GetInt32("store.page_size"),
	}
	cfg.Namer = NamerConfig{
		Provider:     v.GetString("namer.provider"),
		APIKey:       v.GetString("namer.api_key"),
		Model:        v.GetString("namer.model"),
		Endpoint:     v.GetString("namer.endpoint"),
		TimeoutSecs:  v.GetInt("namer.timeout_secs"),
		MaxTokens:    v.GetInt("namer.max_tokens"),
		Temperature:  v.GetFloat64("namer.temperature"),
		MaxRetries:   v.GetInt("namer.max_retries"),
		SystemPrompt: v.GetString("namer.system_prompt"),
		UserPrompt:   v.GetString("namer.user_prompt"),
		VisionModels: stringList(v.Get("namer.vision_models")),
	}
	cfg.PDF = PDFConfig{
		MaxPagesBeforeExtraction: v.GetInt("pdf.max_pages_before_extraction"),
		ExtractionPages:          v.GetInt("pdf.extraction_pages"),
		OCRBinary:                v.GetString("pdf.ocr_binary"),
	}
	cfg.Filter = FilterConfig{
		Patterns: stringList(v.Get("filter.patterns")),
	}
	cfg.Run = RunConfig{
		DryRun:            v.GetBool("run.dry_run"),
		ForceVision:       v.GetBool("run.force_vision"),
		EnableOCREmbed:    v.GetBool("run.enable_ocr_embedding"),
		Concurrency:       v.GetInt("run.concurrency"),
		MaxFilenameLength: v.GetInt("run.max_filename_length"),
		ReportPath:        v.GetString("run.report_path"),
	}
	cfg.Audit = AuditConfig{
		Path: v.GetString("audit.path"),
	}
	cfg.Log = LogConfig{
		Verbose: v.GetBool("log.verbose"),
	}

	return cfg, nil
}

// Validate checks the structural constraints that would otherwise surface
// mid-run. Called once at startup, before any document is touched.
func (c *Config) Validate() error {
	if c.Store.Bucket == "" {
		return fmt.Errorf("store.bucket must be set")
	}
	if c.Namer.Provider == "" {
		return fmt.Errorf("namer.provider must be set")
	}
	if c.Namer.APIKey == "" {
		return fmt.Errorf("namer.api_key must be set (SCANNAMER_NAMER_API_KEY)")
	}
	if c.PDF.ExtractionPages < 1 {
		return fmt.Errorf("pdf.extraction_pages must be at least 1, got %d", c.PDF.ExtractionPages)
	}
	if c.PDF.MaxPagesBeforeExtraction < 1 {
		return fmt.Errorf("pdf.max_pages_before_extraction must be at least 1, got %d", c.PDF.MaxPagesBeforeExtraction)
	}
	if c.Run.MaxFilenameLength < 16 {
		return fmt.Errorf("run.max_filename_length must be at least 16, got %d", c.Run.MaxFilenameLength)
	}
	if c.Run.Concurrency < 1 {
		return fmt.Errorf("run.concurrency must be at least 1, got %d", c.Run.Concurrency)
	}
	if c.Namer.Temperature < 0 || c.Namer.Temperature > 2 {
		return fmt.Errorf("namer.temperature must be in [0, 2], got %g", c.Namer.Temperature)
	}
	return nil
}

// stringList accepts a list-valued key in either shape: a comma-separated
// string (env, defaults) or a native list (config file).
func stringList(val interface{}) []string {
	switch t := val.(type) {
	case string:
		return splitList(t)
	case []string:
		var out []string
		for _, s := range t {
			out = append(out, splitList(s)...)
		}
		return out
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, splitList(fmt.Sprintf("%v", item))...)
		}
		return out
	default:
		return nil
	}
}

// splitList parses a comma-separated string into trimmed non-empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
