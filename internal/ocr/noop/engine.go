package noop

import (
	"context"
	"log"

	"scannamer/internal/port"
)

type noopEngine struct{}

// NewNoopEngine creates a no-op OCREngine that returns documents unchanged.
func NewNoopEngine() port.OCREngine {
	return &noopEngine{}
}

func (e *noopEngine) EmbedText(_ context.Context, pdfBytes []byte) ([]byte, error) {
	log.Printf("[NOOP OCR] skipping text embedding for %d byte document", len(pdfBytes))
	return pdfBytes, nil
}
