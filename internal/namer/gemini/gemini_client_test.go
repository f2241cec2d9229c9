package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/namer"
	gemini "scannamer/internal/namer/gemini"
	"scannamer/internal/port"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.ProviderConfig{
		Provider:    "gemini",
		APIKey:      "test-api-key",
		Model:       "gemini-2.5-flash",
		TimeoutSecs: 30,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func TestGeminiClient_GenerateTitle_Text_Success(t *testing.T) {
	responseBody := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{
					{"text": "Insurance Policy - Allianz - 2024"},
				},
			}},
		},
		"usageMetadata": map[string]interface{}{
			"promptTokenCount":     64,
			"candidatesTokenCount": 11,
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.NotNil(t, reqBody["systemInstruction"])

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 1)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		SystemPrompt: "You name documents.",
		UserPrompt:   "Propose a filename.",
		Content:      domain.PreparedContent{Kind: domain.ContentText, Text: "policy text"},
		MaxTokens:    1000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Insurance Policy - Allianz - 2024", result.RawText)
	assert.Equal(t, "gemini", result.Provider)
	assert.Equal(t, 64, result.Usage.Prompt)
	assert.Equal(t, 11, result.Usage.Completion)
}

func TestGeminiClient_GenerateTitle_PDFPages_InlineData(t *testing.T) {
	responseBody := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{
					{"text": "Receipt - Hardware Store"},
				},
			}},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		contents := reqBody["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)

		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "application/pdf", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])

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
	assert.Equal(t, "Receipt - Hardware Store", result.RawText)
}

func TestGeminiClient_GenerateTitle_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateTitle(context.Background(), port.TitleRequest{
		Content: domain.PreparedContent{Kind: domain.ContentText, Text: "x"},
	})

	assert.Error(t, err)
	assert.False(t, namer.IsTransient(err))
}
