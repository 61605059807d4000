package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openaiServer(t *testing.T, status int, body any, seen *map[string]any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
	}
}

func TestOpenAIProvider_Structured(t *testing.T) {
	var seen map[string]any
	url := openaiServer(t, http.StatusOK, chatCompletion(`{"verdict":"fail","feedback":"off by one"}`, "stop"), &seen)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:   "sys",
		Messages: UserMessage("code"),
		Schema:   reviewSchema,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)

	assert.Equal(t, "gpt-4o-mini", seen["model"])
	msgs, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])

	format, ok := seen["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	url := openaiServer(t, http.StatusOK, chatCompletion(`{"verdict":"pa`, "length"), nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x"), Schema: reviewSchema})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	body := chatCompletion("", "stop")
	body["choices"] = []any{}
	url := openaiServer(t, http.StatusOK, body, nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	url := openaiServer(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "rate_limit"},
	}, nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestOpenRouterProvider(t *testing.T) {
	t.Run("requires key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
		assert.Error(t, err)
	})

	t.Run("model passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "gpt-mini"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-mini", p.ModelID())
	})

	t.Run("custom base url", func(t *testing.T) {
		var seen map[string]any
		url := openaiServer(t, http.StatusOK, chatCompletion("hello", "stop"), &seen)
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "meta-llama/llama-3-8b", BaseURL: url})
		require.NoError(t, err)

		resp, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Text())
		assert.Equal(t, "meta-llama/llama-3-8b", seen["model"])
	})
}
