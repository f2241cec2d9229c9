package port

import (
	"context"

	"scannamer/internal/domain"
)

// TitleRequest carries the prepared content and prompt for one model call.
type TitleRequest struct {
	SystemPrompt string
	UserPrompt   string
	Content      domain.PreparedContent
	MaxTokens    int
	Temperature  float64
}

// TitleResult is the provider-neutral response shape. RawText is the model
// output before any cleaning.
type TitleResult struct {
	RawText  string
	Usage    domain.TokenUsage
	Provider string
	Model    string
}

// TitleGenerator abstracts one LLM backend. Implementations must be
// indistinguishable to callers: same success and failure semantics
// regardless of provider.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, req TitleRequest) (*TitleResult, error)
}
