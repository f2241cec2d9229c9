// Package pdf implements document content acquisition: page counting,
// first-N-page truncation, text extraction, and the preparation policy that
// picks the cheapest representation a model can consume.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Processor wraps the low-level PDF operations. All operations work on
// in-memory byte slices; no temp files are created here.
type Processor struct {
	conf *model.Configuration
}

// NewProcessor returns a Processor with relaxed validation, which tolerates
// the slightly malformed output common to scanner firmware.
func NewProcessor() *Processor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Processor{conf: conf}
}

// PageCount returns the number of pages in the document.
func (p *Processor) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), p.conf)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// TrimPages returns a copy of the document containing only the first n pages.
func (p *Processor) TrimPages(data []byte, n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("trim page count must be positive, got %d", n)
	}
	var out bytes.Buffer
	pages := []string{fmt.Sprintf("1-%d", n)}
	if err := api.Trim(bytes.NewReader(data), &out, pages, p.conf); err != nil {
		return nil, fmt.Errorf("trimming to first %d pages: %w", n, err)
	}
	return out.Bytes(), nil
}

// ExtractText returns the plain text of the first maxPages pages, one
// page-delimited block per page that yielded text. An empty result means the
// document is likely a pure image scan.
func (p *Processor) ExtractText(data []byte, maxPages int) (text string, err error) {
	// The underlying reader panics on some malformed xref tables; treat
	// those like any other extraction failure so the caller can fall back.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extracting text: %v", r)
		}
	}()

	reader, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf for text extraction: %w", err)
	}

	total := reader.NumPage()
	if maxPages > 0 && total > maxPages {
		total = maxPages
	}

	var blocks []string
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- Page %d ---\n%s", i, pageText))
	}

	return strings.Join(blocks, "\n\n"), nil
}
