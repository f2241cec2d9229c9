package xai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/namer"
	xai "scannamer/internal/namer/xai"
	"scannamer/internal/port"
)

func newTestClient(serverURL string) *xai.Client {
	cfg := &config.ProviderConfig{
		Provider:    "xai",
		APIKey:      "test-api-key",
		Model:       "grok-4-0709",
		TimeoutSecs: 30,
	}
	return xai.NewClientWithEndpoint(cfg, serverURL)
}

func TestXAIClient_GenerateTitle_Text_Success(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": "Purchase Order - Globex - May 2024"}},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     70,
			"completion_tokens": 8,
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "grok-4-0709", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		user := messages[1].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		assert.IsType(t, "", user["content"])
		assert.Contains(t, user["content"], "Document content:")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		SystemPrompt: "You name documents.",
		UserPrompt:   "Propose a filename.",
		Content:      domain.PreparedContent{Kind: domain.ContentText, Text: "order text"},
		MaxTokens:    1000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Purchase Order - Globex - May 2024", result.RawText)
	assert.Equal(t, "xai", result.Provider)
	assert.Equal(t, "grok-4-0709", result.Model)
	assert.Equal(t, 70, result.Usage.Prompt)
	assert.Equal(t, 8, result.Usage.Completion)
}

func TestXAIClient_GenerateTitle_PDFPages_ContentBlocks(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": "Delivery Note - June 2024"}},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		messages := reqBody["messages"].([]interface{})
		user := messages[1].(map[string]interface{})
		blocks := user["content"].([]interface{})
		assert.Len(t, blocks, 2)

		textBlock := blocks[0].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])

		imgBlock := blocks[1].(map[string]interface{})
		assert.Equal(t, "image_url", imgBlock["type"])
		imgURL := imgBlock["image_url"].(map[string]interface{})
		assert.True(t, strings.HasPrefix(imgURL["url"].(string), "data:application/pdf;base64,"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		UserPrompt: "Propose a filename.",
		Content: domain.PreparedContent{
			Kind:      domain.ContentPDFPages,
			PDF:       []byte("%PDF-1.4"),
			PageCount: 1,
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Delivery Note - June 2024", result.RawText)
}

func TestXAIClient_GenerateTitle_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		Content: domain.PreparedContent{Kind: domain.ContentText, Text: "x"},
	})

	assert.Error(t, err)
	assert.True(t, namer.IsTransient(err))
	assert.Equal(t, float64(12), namer.RetryAfterOf(err).Seconds())
}

func TestXAIClient_GenerateTitle_AuthError_Permanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		Content: domain.PreparedContent{Kind: domain.ContentText, Text: "x"},
	})

	assert.Error(t, err)
	assert.False(t, namer.IsTransient(err))
}
