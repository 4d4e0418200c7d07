package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/prompts"
)

// GoogleImageProvider calls the Imagen-style synchronous prediction API,
// which returns base64 bytes inline.
type GoogleImageProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGoogleImageProvider builds the Imagen adapter.
func NewGoogleImageProvider(baseURL, apiKey, model string) *GoogleImageProvider {
	return &GoogleImageProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: newImageHTTPClient(),
	}
}

// Tag identifies this provider in the registry and in asset filenames.
func (p *GoogleImageProvider) Tag() string { return "google" }

// Generate produces one image. Markdown emphasis markers are stripped
// before the call because Imagen renders them literally as visual
// artifacts.
func (p *GoogleImageProvider) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImageResult, error) {
	if model == "" {
		model = p.model
	}
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	requestBody := map[string]any{
		"instances": []map[string]any{
			{"prompt": prompts.StripMarkdown(prompt)},
		},
		"parameters": map[string]any{
			"sampleCount":     1,
			"aspectRatio":     aspectRatio,
			"sampleImageSize": "2K",
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predict", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [IMAGE-GEN] Google API returned error (status %d): %s", resp.StatusCode, Truncate(string(body), 200))
		return nil, &Error{
			Provider:   "google",
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), 500),
		}
	}

	var envelope struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(envelope.Predictions) == 0 || envelope.Predictions[0].BytesBase64Encoded == "" {
		return nil, fmt.Errorf("no image data in response")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(envelope.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &ImageResult{
		Bytes: imageBytes,
		Ext:   extFromMime(envelope.Predictions[0].MimeType),
	}, nil
}
