package port

import "context"

// OCREngine produces an embedded-text copy of a scanned PDF by rasterizing
// pages and running character recognition. Failure of the engine is never
// fatal to a document: callers degrade to vision upload.
type OCREngine interface {
	// EmbedText returns a copy of the input PDF with a recognized text
	// layer embedded.
	EmbedText(ctx context.Context, pdfBytes []byte) ([]byte, error)
}
