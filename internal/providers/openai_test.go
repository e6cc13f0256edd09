package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestOpenAIClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		var payload map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Fatalf("unexpected path: %s", r.URL.Path)
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"created": 1700000000,
				"model": "gpt-4o-mini",
				"choices": [{"index": 0, "finish_reason": "stop",
					"message": {"role": "assistant", "content": "Try the linen set."}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
			}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.Chat(context.Background(), &ChatRequest{
			System: "You are a shopping assistant.",
			Messages: []Message{
				{Role: RoleUser, Content: "Hi"},
				{Role: "model", Content: "Hello"},
				{Role: RoleUser, Content: "Any bedding?"},
			},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "Try the linen set." {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 17 {
			t.Errorf("TotalTokens = %d, want 17", result.TotalTokens)
		}

		msgs, _ := payload["messages"].([]any)
		if len(msgs) != 4 {
			t.Fatalf("messages = %d, want 4", len(msgs))
		}
		roles := []string{"system", "user", "assistant", "user"}
		for i, m := range msgs {
			role, _ := m.(map[string]any)["role"].(string)
			if role != roles[i] {
				t.Errorf("messages[%d].role = %q, want %q", i, role, roles[i])
			}
		}
		if payload["model"] != DefaultOpenAIModel {
			t.Errorf("model = %v, want %s", payload["model"], DefaultOpenAIModel)
		}
	})

	t.Run("API error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "upstream down", "type": "server_error"}}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "Hi"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "status 500") {
			t.Errorf("error = %v, want status 500", err)
		}
		if result.Success {
			t.Error("expected Success = false")
		}
		if calls.Load() != 1 {
			t.Errorf("upstream calls = %d, want 1", calls.Load())
		}
	})
}
