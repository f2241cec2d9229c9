package openai

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
	providerName = "openai"
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

func init() {
	namer.Register(providerName, defaultModel, func(cfg *config.ProviderConfig) (port.TitleGenerator, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.TitleGenerator using the OpenAI Chat Completions API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates an OpenAI-based title generator from a provider config.
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
	userContent, err := buildUserContent(req)
	if err != nil {
		return nil, namer.NewPermanentError(providerName, err)
	}

	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": userContent},
		},
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
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
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, namer.NewTransientError(providerName, fmt.Errorf("calling openai API: %w", err), 0)
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

// buildUserContent returns either a plain string (text mode) or the
// block-array shape vision models expect.
func buildUserContent(req port.TitleRequest) (interface{}, error) {
	switch req.Content.Kind {
	case domain.ContentText:
		return req.UserPrompt + "\n\nDocument content:\n" + req.Content.Text, nil
	case domain.ContentPDFPages:
		encoded := base64.StdEncoding.EncodeToString(req.Content.PDF)
		return []map[string]interface{}{
			{"type": "text", "text": req.UserPrompt},
			{
				"type": "image_url",
				"image_url": map[string]interface{}{
					"url": "data:application/pdf;base64," + encoded,
				},
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content kind: %s", req.Content.Kind)
	}
}

// apiResponse models the Chat Completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func parseResponse(body []byte, model string) (*port.TitleResult, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("empty response from API"))
	}

	return &port.TitleResult{
		RawText: resp.Choices[0].Message.Content,
		Usage: domain.TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
		},
		Provider: providerName,
		Model:    model,
	}, nil
}
