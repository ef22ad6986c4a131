package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionJSON = `{
	"id":"chatcmpl-1",
	"object":"chat.completion",
	"created":1730366400,
	"model":"ok-model",
	"choices":[{"index":0,"finish_reason":"stop","logprobs":null,
		"message":{"role":"assistant","content":"Hello from test"}}],
	"usage":{"prompt_tokens":10,"completion_tokens":12,"total_tokens":22}
}`

func newCompletionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "StockPulse", r.Header.Get("X-Title"))

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, 400, req.MaxTokens)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		switch req.Model {
		case "ok-model":
			_, _ = w.Write([]byte(completionJSON))
		case "bad-key":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
		case "busy":
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","code":429}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream error","code":500}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIProviders_RequiresKey(t *testing.T) {
	assert.Nil(t, NewOpenAIProviders(OpenAIConfig{}))

	ps := NewOpenAIProviders(OpenAIConfig{APIKey: "k"})
	require.Len(t, ps, len(DefaultModels))
	assert.Equal(t, DefaultModels[0], ps[0].Name())
}

func TestOpenAIProvider_Classification(t *testing.T) {
	srv := newCompletionServer(t)
	ps := NewOpenAIProviders(OpenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Models:     []string{"ok-model", "bad-key", "busy", "broken"},
		Title:      "StockPulse",
		HTTPClient: srv.Client(),
	})
	require.Len(t, ps, 4)
	ctx := context.Background()

	text, err := ps[0].Complete(ctx, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "Hello from test", text)

	_, err = ps[1].Complete(ctx, "sys", "user")
	require.Error(t, err)
	assert.Equal(t, OutcomeAbort, ps[1].Classify(err))

	_, err = ps[2].Complete(ctx, "sys", "user")
	require.Error(t, err)
	assert.Equal(t, OutcomeNext, ps[2].Classify(err))

	_, err = ps[3].Complete(ctx, "sys", "user")
	require.Error(t, err)
	assert.Equal(t, OutcomeNext, ps[3].Classify(err))
}

func TestRouter_WithOpenAIChain(t *testing.T) {
	srv := newCompletionServer(t)
	ps := NewOpenAIProviders(OpenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Models:     []string{"busy", "ok-model"},
		Title:      "StockPulse",
		HTTPClient: srv.Client(),
	})
	turn := NewRouter(ps).Respond(context.Background(), remoteMsg, "")
	assert.Equal(t, "ok-model", turn.Source)
	assert.Equal(t, "Hello from test", turn.Reply)
}

func TestOpenAIProvider_Temperature(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []float64
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Temperature *float64 `json:"temperature"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.NotNil(t, req.Temperature) {
			mu.Lock()
			seen = append(seen, *req.Temperature)
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	}))
	defer srv.Close()

	zero := 0.0
	for _, temp := range []*float64{&zero, nil} {
		ps := NewOpenAIProviders(OpenAIConfig{
			BaseURL: srv.URL, APIKey: "k", Models: []string{"ok-model"},
			Temperature: temp, HTTPClient: srv.Client(),
		})
		_, err := ps[0].Complete(context.Background(), "sys", "user")
		require.NoError(t, err)
	}
	assert.Equal(t, []float64{0, DefaultTemperature}, seen)
}
