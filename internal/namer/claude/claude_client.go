package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/namer"
	"scannamer/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

func init() {
	namer.Register(providerName, defaultModel, func(cfg *config.ProviderConfig) (port.TitleGenerator, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.TitleGenerator using the Anthropic Messages API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Claude-based title generator from a provider config.
func NewClient(cfg *config.ProviderConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ProviderConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) GenerateTitle(ctx context.Context, req port.TitleRequest) (*port.TitleResult, error) {
	contentBlocks, err := buildContentBlocks(req)
	if err != nil {
		return nil, namer.NewPermanentError(providerName, err)
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"system":      req.SystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, namer.NewTransientError(providerName, fmt.Errorf("calling anthropic API: %w", err), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, namer.NewTransientError(providerName, fmt.Errorf("reading response: %w", err), 0)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, namer.FromHTTPStatus(providerName, resp.StatusCode, respBody, resp.Header.Get("Retry-After"))
	}

	return parseResponse(respBody, c.model)
}

func buildContentBlocks(req port.TitleRequest) ([]map[string]interface{}, error) {
	switch req.Content.Kind {
	case domain.ContentText:
		return []map[string]interface{}{
			{
				"type": "text",
				"text": req.UserPrompt + "\n\nDocument content:\n" + req.Content.Text,
			},
		}, nil
	case domain.ContentPDFPages:
		encoded := base64.StdEncoding.EncodeToString(req.Content.PDF)
		return []map[string]interface{}{
			{
				"type": "document",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": "application/pdf",
					"data":       encoded,
				},
			},
			{
				"type": "text",
				"text": req.UserPrompt,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content kind: %s", req.Content.Kind)
	}
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func parseResponse(body []byte, model string) (*port.TitleResult, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Content) == 0 {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("empty response from API"))
	}

	return &port.TitleResult{
		RawText: resp.Content[0].Text,
		Usage: domain.TokenUsage{
			Prompt:     resp.Usage.InputTokens,
			Completion: resp.Usage.OutputTokens,
		},
		Provider: providerName,
		Model:    model,
	}, nil
}
