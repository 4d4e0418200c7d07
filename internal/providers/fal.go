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
)

// FalImageProvider calls the Fal.ai queued prediction API, which returns a
// result URL that must be fetched to materialize bytes.
type FalImageProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewFalImageProvider builds the Fal adapter.
func NewFalImageProvider(baseURL, apiKey, model string) *FalImageProvider {
	return &FalImageProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: newImageHTTPClient(),
	}
}

// Tag identifies this provider in the registry and in asset filenames.
func (p *FalImageProvider) Tag() string { return "fal" }

// falImageSize maps an aspect ratio onto Fal's named size presets.
func falImageSize(aspectRatio string) string {
	switch aspectRatio {
	case "", "1:1":
		return "square_hd"
	case "16:9":
		return "landscape_16_9"
	case "9:16":
		return "portrait_16_9"
	case "4:3":
		return "landscape_4_3"
	case "3:4", "4:5":
		return "portrait_4_3"
	}
	return "square_hd"
}

// Generate produces one image via Fal and fetches the resulting URL.
func (p *FalImageProvider) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImageResult, error) {
	if model == "" {
		model = p.model
	}

	requestBody := map[string]any{
		"prompt":     prompt,
		"image_size": falImageSize(aspectRatio),
		"num_images": 1,
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.baseURL + "/" + strings.TrimPrefix(model, "/")
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+p.apiKey)

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
		log.Printf("❌ [IMAGE-GEN] Fal API returned error (status %d): %s", resp.StatusCode, Truncate(string(body), 200))
		return nil, &Error{
			Provider:   "fal",
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), 500),
		}
	}

	var envelope struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(envelope.Images) == 0 || envelope.Images[0].URL == "" {
		return nil, fmt.Errorf("no image URL in response")
	}

	return fetchImageURL(ctx, p.httpClient, "fal", envelope.Images[0].URL)
}
