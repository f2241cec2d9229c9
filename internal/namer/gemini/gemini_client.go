package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-flash"
)

func init() {
	namer.Register(providerName, defaultModel, func(cfg *config.ProviderConfig) (port.TitleGenerator, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.TitleGenerator using Google's Gemini API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Gemini-based title generator.
func NewClient(cfg *config.ProviderConfig) *Client {
	return newClient(cfg, cfg.Endpoint)
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
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) GenerateTitle(ctx context.Context, req port.TitleRequest) (*port.TitleResult, error) {
	parts, err := buildParts(req)
	if err != nil {
		return nil, namer.NewPermanentError(providerName, err)
	}

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": req.SystemPrompt},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": req.MaxTokens,
			"temperature":     req.Temperature,
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
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, namer.NewTransientError(providerName, fmt.Errorf("calling gemini API: %w", err), 0)
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

func buildParts(req port.TitleRequest) ([]map[string]interface{}, error) {
	switch req.Content.Kind {
	case domain.ContentText:
		return []map[string]interface{}{
			{"text": req.UserPrompt + "\n\nDocument content:\n" + req.Content.Text},
		}, nil
	case domain.ContentPDFPages:
		encoded := base64.StdEncoding.EncodeToString(req.Content.PDF)
		return []map[string]interface{}{
			{
				"inline_data": map[string]interface{}{
					"mime_type": "application/pdf",
					"data":      encoded,
				},
			},
			{"text": req.UserPrompt},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content kind: %s", req.Content.Kind)
	}
}

// geminiResponse models the generateContent response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func parseResponse(body []byte, model string) (*port.TitleResult, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, namer.NewPermanentError(providerName, fmt.Errorf("empty response from API"))
	}

	return &port.TitleResult{
		RawText: resp.Candidates[0].Content.Parts[0].Text,
		Usage: domain.TokenUsage{
			Prompt:     resp.UsageMetadata.PromptTokenCount,
			Completion: resp.UsageMetadata.CandidatesTokenCount,
		},
		Provider: providerName,
		Model:    model,
	}, nil
}
