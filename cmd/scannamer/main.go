// Command scannamer scans a cloud file store for generically named PDF
// documents, asks an LLM for a descriptive title based on their content, and
// renames the eligible ones in place.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"scannamer/internal/audit/noop"
	"scannamer/internal/audit/sqlite"
	"scannamer/internal/config"
	"scannamer/internal/csvexport"
	"scannamer/internal/domain"
	"scannamer/internal/namer"
	ocrnoop "scannamer/internal/ocr/noop"
	"scannamer/internal/ocr/ocrmypdf"
	"scannamer/internal/pdf"
	"scannamer/internal/port"
	"scannamer/internal/service"
	"scannamer/internal/storage/s3"

	// Provider registration.
	_ "scannamer/internal/namer/claude"
	_ "scannamer/internal/namer/gemini"
	_ "scannamer/internal/namer/openai"
	_ "scannamer/internal/namer/xai"
)

var (
	flagConfig      string
	flagDryRun      bool
	flagForceVision bool
	flagOCREmbed    bool
	flagProvider    string
	flagModel       string
	flagMaxTokens   int
	flagPrefix      string
	flagConcurrency int
	flagReport      string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:          "scannamer",
	Short:        "Rename generically named scanned PDFs using LLM-proposed titles",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered providers and their vision-capable models",
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := namer.DefaultCapabilities()
		for _, provider := range namer.Providers() {
			fmt.Printf("%s (default: %s)\n", provider, namer.DefaultModel(provider))
			for _, model := range caps.VisionModels(provider) {
				fmt.Printf("  %s (vision)\n", model)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "log intended renames without applying them")
	rootCmd.Flags().BoolVar(&flagForceVision, "force-vision", false, "skip text extraction and upload page images")
	rootCmd.Flags().BoolVar(&flagOCREmbed, "enable-ocr-embedding", false, "run OCR over documents with no extractable text")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (claude, openai, gemini, xai)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model identifier override")
	rootCmd.Flags().IntVar(&flagMaxTokens, "tokens", 0, "max completion tokens per model call")
	rootCmd.Flags().StringVar(&flagPrefix, "prefix", "", "object key prefix to scan")
	rootCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "number of documents processed in parallel")
	rootCmd.Flags().StringVar(&flagReport, "report", "", "write a CSV run report to this path")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "log per-document progress")
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadConfig resolves the configuration snapshot and layers explicit CLI
// flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("dry-run") {
		cfg.Run.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("force-vision") {
		cfg.Run.ForceVision = flagForceVision
	}
	if cmd.Flags().Changed("enable-ocr-embedding") {
		cfg.Run.EnableOCREmbed = flagOCREmbed
	}
	if cmd.Flags().Changed("provider") {
		cfg.Namer.Provider = flagProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Namer.Model = flagModel
	}
	if cmd.Flags().Changed("tokens") {
		cfg.Namer.MaxTokens = flagMaxTokens
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Store.Prefix = flagPrefix
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Run.Concurrency = flagConcurrency
	}
	if cmd.Flags().Changed("report") {
		cfg.Run.ReportPath = flagReport
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Log.Verbose = flagVerbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	caps := namer.DefaultCapabilities()
	for provider, models := range parseVisionOverrides(cfg.Namer.VisionModels) {
		caps.Extend(provider, models)
	}

	titler, err := namer.New(cfg.Namer.ProviderConfig())
	if err != nil {
		return err
	}
	if cfg.Namer.Model == "" {
		cfg.Namer.Model = namer.DefaultModel(cfg.Namer.Provider)
	}

	if cfg.Run.ForceVision && !caps.SupportsVision(cfg.Namer.Provider, cfg.Namer.Model) {
		return domain.NewConfigurationError(
			"vision upload forced but %s/%s is not vision-capable", cfg.Namer.Provider, cfg.Namer.Model)
	}

	store, err := s3.NewS3Store(ctx, &cfg.Store)
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}

	var ocrEngine port.OCREngine
	if cfg.Run.EnableOCREmbed {
		ocrEngine = ocrmypdf.NewEngine(cfg.PDF.OCRBinary)
	} else {
		ocrEngine = ocrnoop.NewNoopEngine()
	}

	var auditLog port.AuditLog
	if cfg.Audit.Path != "" {
		auditLog, err = sqlite.NewStore(cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
	} else {
		auditLog = noop.NewNoopLog()
	}
	defer func() { _ = auditLog.Close() }()

	preparer := pdf.NewPreparer(pdf.NewProcessor(), ocrEngine,
		cfg.PDF.MaxPagesBeforeExtraction, cfg.PDF.ExtractionPages)

	svc := service.NewRenameService(store, titler, preparer, caps, auditLog, cfg)

	log.Printf("scannamer: starting run (provider=%s, model=%s, prefix=%q, dryRun=%t)",
		cfg.Namer.Provider, cfg.Namer.Model, cfg.Store.Prefix, cfg.Run.DryRun)

	summary, outcomes, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Run.ReportPath != "" {
		if err := writeReport(cfg.Run.ReportPath, outcomes); err != nil {
			log.Printf("scannamer: writing report failed: %v", err)
		}
	}

	log.Printf("scannamer: run complete (listed=%d, skipped=%d, renamed=%d, dryRun=%d, failed=%d, tokens=%d)",
		summary.Listed, summary.Skipped, summary.Renamed, summary.DryRun, summary.Failed, summary.UsageSum.Total())
	return nil
}

// parseVisionOverrides groups "provider:model" pairs by provider.
func parseVisionOverrides(pairs []string) map[string]map[string]bool {
	grouped := map[string]map[string]bool{}
	for _, pair := range pairs {
		provider, model, ok := strings.Cut(pair, ":")
		if !ok || provider == "" || model == "" {
			log.Printf("scannamer: ignoring malformed vision model override %q", pair)
			continue
		}
		if grouped[provider] == nil {
			grouped[provider] = map[string]bool{}
		}
		grouped[provider][model] = true
	}
	return grouped
}

func writeReport(path string, outcomes []domain.RenameOutcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return err
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteOutcomes(outcomes); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
