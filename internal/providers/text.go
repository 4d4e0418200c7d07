package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ChatOptions tunes a single chat completion call.
type ChatOptions struct {
	Model       string  // override the client default
	Temperature float64 // 0 means use the client default
	JSONMode    bool    // request response_format json_object
	Images      []string // image URLs or data URLs attached as vision content parts
}

// ChatUsage carries token counts for the usage ledger.
type ChatUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// ChatResult is a successful chat completion.
type ChatResult struct {
	Content string
	Model   string
	Usage   ChatUsage
}

// TextClient calls an OpenAI-compatible chat completions endpoint.
type TextClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewTextClient builds a text provider client.
func NewTextClient(baseURL, apiKey, model string, temperature float64) *TextClient {
	return &TextClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

// Chat sends a system+user prompt pair and returns the raw completion
// text plus token usage. HTTP failures come back as *providers.Error with
// the status code and a truncated body; the call never mutates state.
func (c *TextClient) Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (*ChatResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, fmt.Errorf("user prompt is required")
	}

	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}
	temperature := c.temperature
	if opts.Temperature != 0 {
		temperature = opts.Temperature
	}

	var userContent any = userPrompt
	if len(opts.Images) > 0 {
		parts := []map[string]any{
			{"type": "text", "text": userPrompt},
		}
		for _, image := range opts.Images {
			parts = append(parts, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": image},
			})
		}
		userContent = parts
	}

	messages := []map[string]any{}
	if systemPrompt != "" {
		messages = append(messages, map[string]any{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]any{"role": "user", "content": userContent})

	requestBody := map[string]any{
		"model":       model,
		"temperature": temperature,
		"messages":    messages,
	}
	if opts.JSONMode {
		requestBody["response_format"] = map[string]any{"type": "json_object"}
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [TEXT-PROVIDER] API returned error (status %d): %s", resp.StatusCode, Truncate(string(body), 200))
		return nil, &Error{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), 800),
		}
	}

	var envelope struct {
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
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, &Error{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Body:       Truncate("no choices in response: "+string(body), 800),
		}
	}

	return &ChatResult{
		Content: envelope.Choices[0].Message.Content,
		Model:   model,
		Usage: ChatUsage{
			PromptTokens:     envelope.Usage.PromptTokens,
			CompletionTokens: envelope.Usage.CompletionTokens,
		},
	}, nil
}
