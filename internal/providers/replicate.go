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

// ReplicateImageProvider calls the Replicate prediction API with blocking
// mode, then fetches the output URL it returns.
type ReplicateImageProvider struct {
	baseURL    string
	apiToken   string
	model      string
	httpClient *http.Client
}

// NewReplicateImageProvider builds the Replicate adapter.
func NewReplicateImageProvider(baseURL, apiToken, model string) *ReplicateImageProvider {
	return &ReplicateImageProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiToken:   apiToken,
		model:      model,
		httpClient: newImageHTTPClient(),
	}
}

// Tag identifies this provider in the registry and in asset filenames.
func (p *ReplicateImageProvider) Tag() string { return "replicate" }

// replicateOutput tolerates the two shapes Replicate returns for output:
// a single URL string or an array of URL strings.
type replicateOutput []string

func (o *replicateOutput) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*o = replicateOutput{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*o = replicateOutput(list)
	return nil
}

// Generate produces one image via Replicate and fetches the output URL.
func (p *ReplicateImageProvider) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImageResult, error) {
	if model == "" {
		model = p.model
	}
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	requestBody := map[string]any{
		"input": map[string]any{
			"prompt":       prompt,
			"aspect_ratio": aspectRatio,
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s/predictions", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiToken)
	// Block until the prediction resolves instead of polling the queue.
	req.Header.Set("Prefer", "wait")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ [IMAGE-GEN] Replicate API returned error (status %d): %s", resp.StatusCode, Truncate(string(body), 200))
		return nil, &Error{
			Provider:   "replicate",
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), 500),
		}
	}

	var envelope struct {
		Status string          `json:"status"`
		Output replicateOutput `json:"output"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Error != "" {
		return nil, &Error{
			Provider:   "replicate",
			StatusCode: resp.StatusCode,
			Body:       Truncate(envelope.Error, 500),
		}
	}
	if len(envelope.Output) == 0 || envelope.Output[0] == "" {
		return nil, fmt.Errorf("no image URL in response (status: %s)", envelope.Status)
	}

	return fetchImageURL(ctx, p.httpClient, "replicate", envelope.Output[0])
}
