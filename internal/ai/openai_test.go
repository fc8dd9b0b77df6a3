package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/limboscrape/internal/config"
)

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	return string(body)
}

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Label:       "OpenRouter",
		API:         config.APIOpenAI,
		BaseURL:     baseURL,
		Model:       "test-model",
		Temperature: 0.3,
		MaxTokens:   500,
	}
}

func TestOpenAIProvider_Analyze(t *testing.T) {
	content := strings.Repeat("x", 5000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 0.0001)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "Return only valid JSON")
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
		assert.Equal(t, "Analyze this content:\n\n"+strings.Repeat("x", 4000), req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion(`{"summary":"A page.","keywords":["a","b"],"classification":"blog","sentiment":"neutral"}`)))
	}))
	defer server.Close()

	p := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{MaxContentChars: 4000})
	require.Equal(t, "OpenRouter", p.Name())

	analysis, err := p.Analyze(context.Background(), content)
	require.NoError(t, err)
	require.Equal(t, &Analysis{
		Summary:        "A page.",
		Keywords:       []string{"a", "b"},
		Classification: "blog",
		Sentiment:      SentimentNeutral,
	}, analysis)
	require.Len(t, content, 5000, "caller's content is not truncated")
}

func TestOpenAIProvider_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion("Sorry, I can't help with that.")))
	}))
	defer server.Close()

	p := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{})
	_, err := p.Analyze(context.Background(), "some content")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "Sorry, I can't help with that.", parseErr.Response)
}

func TestOpenAIProvider_HTTPError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{})
	_, err := p.Analyze(context.Background(), "some content")
	require.Error(t, err)

	var vendorErr *VendorError
	require.True(t, errors.As(err, &vendorErr))
	require.Equal(t, http.StatusTooManyRequests, vendorErr.StatusCode)
	require.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{})
	_, err := p.Analyze(context.Background(), "some content")

	var vendorErr *VendorError
	require.True(t, errors.As(err, &vendorErr))
	require.Contains(t, err.Error(), "empty response")
}

func TestOpenAIProvider_LenientJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion("```json\n{\"summary\":\"fenced\"}\n```")))
	}))
	defer server.Close()

	strict := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{})
	_, err := strict.Analyze(context.Background(), "content")
	require.Error(t, err)

	lenient := NewOpenAIProvider(testProviderConfig(server.URL), "or-key", Settings{LenientJSON: true})
	analysis, err := lenient.Analyze(context.Background(), "content")
	require.NoError(t, err)
	require.Equal(t, "fenced", analysis.Summary)
}
