package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.APIKey = "test-key"
	return NewClient(cfg)
}

func TestClient_AskReturnsUpstreamReply(t *testing.T) {
	var captured ChatRequestDTO
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := ChatResponseDTO{
			Choices: []ChoiceDTO{{Message: MessageDTO{Role: "assistant", Content: "Guten Tag! Попробуйте: Wie geht's?"}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	text, source := client.Ask(context.Background(), "Как поздороваться?")

	assert.Equal(t, "Guten Tag! Попробуйте: Wie geht's?", text)
	assert.Equal(t, SourceDeepSeek, source)

	assert.Equal(t, "deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "Как поздороваться?", captured.Messages[1].Content)
	assert.InDelta(t, 0.6, captured.Temperature, 0.001)
	assert.Equal(t, 220, captured.MaxTokens)
}

func TestClient_AskWithoutKeyServesFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // must never be dialed
	client := NewClient(cfg)

	text, source := client.Ask(context.Background(), "Подскажи Perfekt")

	assert.Equal(t, SourceFallback, source)
	assert.Contains(t, text, "Подскажи Perfekt")
	assert.Contains(t, text, "Мини-задание")
}

func TestClient_AskUpstreamErrorServesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	text, source := client.Ask(context.Background(), "вопрос")

	assert.Equal(t, SourceFallback, source)
	assert.Contains(t, text, "вопрос")
}

func TestClient_AskEmptyChoiceServesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, source := client.Ask(context.Background(), "вопрос")
	assert.Equal(t, SourceFallback, source)
}

func TestClient_AskClientErrorDoesNotRetry(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, source := client.Ask(context.Background(), "вопрос")

	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, 1, calls)
}

func TestClient_AskRetriesServerErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	text, source := client.Ask(context.Background(), "вопрос")

	assert.Equal(t, SourceDeepSeek, source)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, calls)
}

func TestFallbackReplyIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	client := NewClient(cfg)

	a, _ := client.Ask(context.Background(), "тест")
	b, _ := client.Ask(context.Background(), "тест")
	assert.Equal(t, a, b)
}
