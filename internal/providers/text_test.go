package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatSuccess(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`))
	}))
	defer server.Close()

	client := NewTextClient(server.URL, "test-key", "gpt-4o", 0.7)
	result, err := client.Chat(context.Background(), "sys", "user", ChatOptions{JSONMode: true})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if result.Content != "hello" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Usage.PromptTokens != 12 || result.Usage.CompletionTokens != 3 {
		t.Errorf("usage = %+v", result.Usage)
	}

	if captured["model"] != "gpt-4o" {
		t.Errorf("model = %v", captured["model"])
	}
	format, ok := captured["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Errorf("response_format = %v", captured["response_format"])
	}
	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", captured["messages"])
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "sys" {
		t.Errorf("system message = %v", first)
	}
}

func TestChatHTTPFailure(t *testing.T) {
	longBody := strings.Repeat("x", 2000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(longBody))
	}))
	defer server.Close()

	client := NewTextClient(server.URL, "k", "m", 0.7)
	_, err := client.Chat(context.Background(), "", "prompt", ChatOptions{})
	if err == nil {
		t.Fatal("expected error")
	}

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *providers.Error, got %T", err)
	}
	if provErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", provErr.StatusCode)
	}
	if len(provErr.Body) > 850 {
		t.Errorf("body should be truncated to ~800 chars, got %d", len(provErr.Body))
	}
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	client := NewTextClient("http://localhost:0", "k", "m", 0.7)
	if _, err := client.Chat(context.Background(), "sys", "   ", ChatOptions{}); err == nil {
		t.Error("empty user prompt must be rejected before the network call")
	}
}

func TestChatVisionParts(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewTextClient(server.URL, "k", "m", 0.7)
	_, err := client.Chat(context.Background(), "", "describe", ChatOptions{
		Images: []string{"https://example.com/ref.png"},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	messages := captured["messages"].([]any)
	content, ok := messages[0].(map[string]any)["content"].([]any)
	if !ok || len(content) != 2 {
		t.Fatalf("expected text+image content parts, got %v", messages[0])
	}
	image := content[1].(map[string]any)
	if image["type"] != "image_url" {
		t.Errorf("second part = %v", image)
	}
}
