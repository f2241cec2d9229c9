package service

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/filename"
	"scannamer/internal/namer"
	"scannamer/internal/pdf"
	"scannamer/internal/port"
)

// baseBackoff is the first retry delay when a transient error carries no
// Retry-After hint. Subsequent attempts double it.
const baseBackoff = time.Second

// RenameService drives one full pass over the file store: list, filter,
// download, prepare, generate, clean, apply. Per-document failures are
// recorded as outcomes and never abort the run.
type RenameService struct {
	store    port.FileStore
	titler   port.TitleGenerator
	preparer *pdf.Preparer
	caps     *namer.Capabilities
	audit    port.AuditLog
	cfg      *config.Config

	mu       sync.Mutex
	outcomes []domain.RenameOutcome
	summary  domain.RunSummary
}

// NewRenameService creates a RenameService. audit may be a no-op
// implementation when auditing is disabled.
func NewRenameService(
	store port.FileStore,
	titler port.TitleGenerator,
	preparer *pdf.Preparer,
	caps *namer.Capabilities,
	audit port.AuditLog,
	cfg *config.Config,
) *RenameService {
	return &RenameService{
		store:    store,
		titler:   titler,
		preparer: preparer,
		caps:     caps,
		audit:    audit,
		cfg:      cfg,
	}
}

// Run processes every document under the configured prefix and returns the
// aggregated summary plus the per-document outcomes. The returned error is
// reserved for run-level failures (listing, cancellation); individual
// document failures surface only in the outcomes.
func (s *RenameService) Run(ctx context.Context) (*domain.RunSummary, []domain.RenameOutcome, error) {
	s.mu.Lock()
	s.outcomes = nil
	s.summary = domain.RunSummary{}
	s.mu.Unlock()

	pageToken := ""
	for {
		page, err := s.store.List(ctx, s.cfg.Store.Prefix, pageToken)
		if err != nil {
			return nil, nil, fmt.Errorf("listing documents: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Run.Concurrency)
		for i := range page.Documents {
			doc := page.Documents[i]
			s.mu.Lock()
			s.summary.Listed++
			s.mu.Unlock()

			g.Go(func() error {
				outcome := s.processDocument(gctx, &doc)
				s.recordOutcome(gctx, outcome)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		if page.NextToken == "" {
			break
		}
		pageToken = page.NextToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := s.summary
	return &summary, s.outcomes, nil
}

// processDocument runs the per-document state machine through to a terminal
// outcome. Downloaded bytes are dropped when the function returns.
func (s *RenameService) processDocument(ctx context.Context, doc *domain.Document) *domain.RenameOutcome {
	outcome := &domain.RenameOutcome{
		DocumentID:   doc.ID,
		OriginalName: doc.Name,
		Provider:     s.cfg.Namer.Provider,
		Model:        s.cfg.Namer.Model,
	}

	if !filename.IsGeneric(doc.Name, s.cfg.Filter.Patterns) {
		if s.cfg.Log.Verbose {
			log.Printf("renameService: skipping %s (not a generic name)", doc.Name)
		}
		outcome.Status = domain.OutcomeSkippedNotGeneric
		return outcome
	}

	data, err := s.store.Download(ctx, doc.ID)
	if err != nil {
		log.Printf("renameService: download failed for %s: %v", doc.Name, err)
		outcome.Status = domain.OutcomeDownloadFailed
		outcome.Error = err.Error()
		return outcome
	}
	doc.Bytes = data
	defer func() { doc.Bytes = nil }()

	content, err := s.preparer.Prepare(ctx, doc, pdf.PrepareOptions{
		ForceVision:   s.cfg.Run.ForceVision,
		OCREmbedding:  s.cfg.Run.EnableOCREmbed,
		VisionCapable: s.caps.SupportsVision(s.cfg.Namer.Provider, s.cfg.Namer.Model),
	})
	if err != nil {
		log.Printf("renameService: cannot prepare %s: %v", doc.Name, err)
		outcome.Status = domain.OutcomeUnprocessable
		outcome.Error = err.Error()
		return outcome
	}

	result, err := s.generateWithRetry(ctx, doc, content)
	if err != nil {
		log.Printf("renameService: title generation failed for %s: %v", doc.Name, err)
		outcome.Status = domain.OutcomeModelFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Usage = result.Usage

	// The fallback token must not resemble a generic name, or the renamed
	// file would stay eligible and be reprocessed every run.
	fallback := fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(doc.ID)))
	newName := filename.Clean(result.RawText, fallback, s.cfg.Run.MaxFilenameLength)
	outcome.ProposedTitle = newName

	if s.cfg.Run.DryRun {
		log.Printf("renameService: [DRY RUN] would rename %s -> %s", doc.Name, newName)
		outcome.Status = domain.OutcomeDryRun
		return outcome
	}

	if err := s.store.Rename(ctx, doc.ID, newName); err != nil {
		log.Printf("renameService: rename failed for %s: %v", doc.Name, err)
		outcome.Status = domain.OutcomeRenameFailed
		outcome.Error = err.Error()
		return outcome
	}

	log.Printf("renameService: renamed %s -> %s", doc.Name, newName)
	outcome.Status = domain.OutcomeRenamed
	outcome.Applied = true
	return outcome
}

// generateWithRetry calls the model up to MaxRetries+1 times, backing off
// between attempts. Only errors the provider marked transient are retried;
// a Retry-After hint overrides the exponential delay.
func (s *RenameService) generateWithRetry(ctx context.Context, doc *domain.Document, content *domain.PreparedContent) (*port.TitleResult, error) {
	req := port.TitleRequest{
		SystemPrompt: s.systemPrompt(),
		UserPrompt:   s.userPrompt(doc, content),
		Content:      *content,
		MaxTokens:    s.cfg.Namer.MaxTokens,
		Temperature:  s.cfg.Namer.Temperature,
	}

	var lastErr error
	attempts := s.cfg.Namer.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := baseBackoff << (attempt - 1)
			if hint := namer.RetryAfterOf(lastErr); hint > 0 {
				delay = hint
			}
			log.Printf("renameService: retrying %s in %s (attempt %d/%d)", doc.Name, delay, attempt+1, attempts)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := s.titler.GenerateTitle(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !namer.IsTransient(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

func (s *RenameService) systemPrompt() string {
	if s.cfg.Namer.SystemPrompt != "" {
		return s.cfg.Namer.SystemPrompt
	}
	return namer.DefaultSystemPrompt
}

func (s *RenameService) userPrompt(doc *domain.Document, content *domain.PreparedContent) string {
	template := s.cfg.Namer.UserPrompt
	if template == "" {
		template = namer.DefaultUserPrompt
	}
	return namer.Render(template, map[string]string{
		"page_count": strconv.Itoa(s.promptPageCount(doc, content)),
		"max_length": strconv.Itoa(s.cfg.Run.MaxFilenameLength),
	})
}

// promptPageCount is the number of pages the model actually sees, after
// any truncation to the extraction window.
func (s *RenameService) promptPageCount(doc *domain.Document, content *domain.PreparedContent) int {
	if content.Kind == domain.ContentPDFPages {
		return content.PageCount
	}
	if doc.PageCount > s.cfg.PDF.MaxPagesBeforeExtraction {
		return s.cfg.PDF.ExtractionPages
	}
	return doc.PageCount
}

// recordOutcome appends the outcome, bumps the summary counters, and writes
// the audit record. Audit failures are logged and otherwise ignored.
func (s *RenameService) recordOutcome(ctx context.Context, outcome *domain.RenameOutcome) {
	outcome.FinishedAt = time.Now().UTC()

	s.mu.Lock()
	s.outcomes = append(s.outcomes, *outcome)
	switch outcome.Status {
	case domain.OutcomeSkippedNotGeneric:
		s.summary.Skipped++
	case domain.OutcomeRenamed:
		s.summary.Renamed++
	case domain.OutcomeDryRun:
		s.summary.DryRun++
	default:
		s.summary.Failed++
	}
	s.summary.UsageSum.Add(outcome.Usage)
	s.mu.Unlock()

	if err := s.audit.Record(ctx, outcome); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("renameService: audit record failed for %s: %v", outcome.DocumentID, err)
	}
}
