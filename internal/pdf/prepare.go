package pdf

import (
	"context"
	"fmt"
	"log"
	"strings"

	"scannamer/internal/domain"
	"scannamer/internal/port"
)

// PrepareOptions carries the per-run switches that shape content selection.
type PrepareOptions struct {
	// ForceVision skips text extraction entirely and uploads page bytes.
	ForceVision bool
	// OCREmbedding enables the optional OCR pre-pass for documents whose
	// pages carry no extractable text.
	OCREmbedding bool
	// VisionCapable is the capability registry's verdict for the selected
	// provider/model pair.
	VisionCapable bool
}

// Engine is the slice of Processor the preparation policy needs. It exists
// as a seam; *Processor is the production implementation.
type Engine interface {
	PageCount(data []byte) (int, error)
	TrimPages(data []byte, n int) ([]byte, error)
	ExtractText(data []byte, maxPages int) (string, error)
}

// Preparer chooses exactly one content representation per document.
type Preparer struct {
	proc            Engine
	ocr             port.OCREngine
	maxPages        int
	extractionPages int
}

// NewPreparer builds a Preparer. maxPages is the page count above which only
// the first extractionPages pages are used; ocr may be nil when the OCR
// pre-pass is not available.
func NewPreparer(proc Engine, ocr port.OCREngine, maxPages, extractionPages int) *Preparer {
	return &Preparer{
		proc:            proc,
		ocr:             ocr,
		maxPages:        maxPages,
		extractionPages: extractionPages,
	}
}

// Prepare produces the content payload for one downloaded document,
// following the selection policy in order: forced vision upload, text
// extraction (with optional OCR pre-pass), then vision-upload fallback.
// Documents with no usable representation return domain.ErrUnprocessable.
func (p *Preparer) Prepare(ctx context.Context, doc *domain.Document, opts PrepareOptions) (*domain.PreparedContent, error) {
	pageCount, err := p.proc.PageCount(doc.Bytes)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", doc.Name, err)
	}
	doc.PageCount = pageCount

	if opts.ForceVision {
		if !opts.VisionCapable {
			return nil, domain.WrapConfigurationError(domain.ErrVisionUnsupported,
				"vision upload forced but selected model is text-only")
		}
		return p.preparePages(doc, pageCount)
	}

	window := pageCount
	if pageCount > p.maxPages {
		window = p.extractionPages
	}

	text, err := p.proc.ExtractText(doc.Bytes, window)
	if err != nil {
		log.Printf("preparer: text extraction failed for %s: %v", doc.Name, err)
	}
	if strings.TrimSpace(text) != "" {
		return &domain.PreparedContent{Kind: domain.ContentText, Text: text}, nil
	}

	if opts.OCREmbedding && p.ocr != nil {
		if ocrText, ok := p.ocrPrePass(ctx, doc, window); ok {
			return &domain.PreparedContent{Kind: domain.ContentText, Text: ocrText}, nil
		}
	}

	if !opts.VisionCapable {
		return nil, fmt.Errorf("%s: no extractable text and no vision fallback: %w",
			doc.Name, domain.ErrUnprocessable)
	}
	return p.preparePages(doc, pageCount)
}

// preparePages builds a pdf-pages payload, truncated to the extraction
// window when the document exceeds the page threshold. The truncated copy is
// derived in memory and discarded with the payload.
func (p *Preparer) preparePages(doc *domain.Document, pageCount int) (*domain.PreparedContent, error) {
	data := doc.Bytes
	effective := pageCount
	if pageCount > p.maxPages {
		trimmed, err := p.proc.TrimPages(doc.Bytes, p.extractionPages)
		if err != nil {
			return nil, fmt.Errorf("truncating %s: %w", doc.Name, err)
		}
		data = trimmed
		effective = p.extractionPages
	}
	return &domain.PreparedContent{
		Kind:      domain.ContentPDFPages,
		PDF:       data,
		PageCount: effective,
	}, nil
}

// ocrPrePass runs recognition over the (window-truncated) document and
// re-attempts text extraction on the embedded-text copy. Any failure returns
// ok=false so the caller degrades to the vision-upload fallback.
func (p *Preparer) ocrPrePass(ctx context.Context, doc *domain.Document, window int) (string, bool) {
	input := doc.Bytes
	if doc.PageCount > p.maxPages {
		trimmed, err := p.proc.TrimPages(doc.Bytes, p.extractionPages)
		if err != nil {
			log.Printf("preparer: OCR pre-pass trim failed for %s: %v", doc.Name, err)
			return "", false
		}
		input = trimmed
	}

	embedded, err := p.ocr.EmbedText(ctx, input)
	if err != nil {
		log.Printf("preparer: OCR pre-pass failed for %s: %v", doc.Name, err)
		return "", false
	}

	text, err := p.proc.ExtractText(embedded, window)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("preparer: OCR copy yielded no text for %s", doc.Name)
		return "", false
	}
	return text, true
}
