package ocrmypdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scannamer/internal/port"
)

const defaultBinary = "ocrmypdf"

type engine struct {
	binary string
}

// NewEngine creates an OCREngine that shells out to the ocrmypdf binary.
// The binary path may be empty, in which case "ocrmypdf" is resolved from PATH.
func NewEngine(binary string) port.OCREngine {
	if binary == "" {
		binary = defaultBinary
	}
	return &engine{binary: binary}
}

func (e *engine) EmbedText(ctx context.Context, pdfBytes []byte) ([]byte, error) {
	tempDir, err := os.MkdirTemp("", "ocr-embed-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, "input.pdf")
	outputPath := filepath.Join(tempDir, "output.pdf")
	if err := os.WriteFile(inputPath, pdfBytes, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp input: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binary, "--skip-text", "--output-type", "pdf", inputPath, outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", e.binary, err, detail)
		}
		return nil, fmt.Errorf("%s failed: %w", e.binary, err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR output: %w", err)
	}
	return out, nil
}
