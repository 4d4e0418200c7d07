package providers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ImageResult is a generated image materialized as bytes, regardless of
// whether the provider returned them inline or behind a URL.
type ImageResult struct {
	Bytes []byte
	Ext   string // file extension without the dot: png, jpg, webp
}

// ImageProvider generates one image from a flat prompt string. Adapters
// normalize the three provider families (inline base64, queued URL) so
// orchestrators treat them uniformly.
type ImageProvider interface {
	Tag() string
	Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImageResult, error)
}

// ImageRegistry selects an ImageProvider by tag with a configured default.
type ImageRegistry struct {
	providers  map[string]ImageProvider
	defaultTag string
}

// NewImageRegistry creates a registry with the given default provider tag.
func NewImageRegistry(defaultTag string) *ImageRegistry {
	return &ImageRegistry{
		providers:  make(map[string]ImageProvider),
		defaultTag: defaultTag,
	}
}

// Register adds a provider under its tag.
func (r *ImageRegistry) Register(p ImageProvider) {
	r.providers[p.Tag()] = p
	log.Printf("🖼️ [IMAGE-PROVIDER] Registered image provider: %s", p.Tag())
}

// Get returns the provider for a tag, falling back to the default when the
// tag is empty.
func (r *ImageRegistry) Get(tag string) (ImageProvider, error) {
	if tag == "" {
		tag = r.defaultTag
	}
	p, ok := r.providers[strings.ToLower(tag)]
	if !ok {
		return nil, fmt.Errorf("unknown image provider: %s", tag)
	}
	return p, nil
}

// Tags lists the registered provider tags.
func (r *ImageRegistry) Tags() []string {
	tags := make([]string, 0, len(r.providers))
	for tag := range r.providers {
		tags = append(tags, tag)
	}
	return tags
}

func newImageHTTPClient() *http.Client {
	// Image generation can take a while.
	return &http.Client{Timeout: 180 * time.Second}
}

// fetchImageURL materializes bytes from a queued-prediction provider's
// result URL.
func fetchImageURL(ctx context.Context, client *http.Client, provider, url string) (*ImageResult, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetch request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), 500),
		}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("no image data at %s", url)
	}

	return &ImageResult{
		Bytes: body,
		Ext:   extFromMime(resp.Header.Get("Content-Type")),
	}, nil
}

// extFromMime infers a file extension from a mime type, defaulting to png
// and normalizing jpeg to jpg.
func extFromMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	ext := strings.TrimPrefix(mime, "image/")
	switch ext {
	case "", mime: // not an image/* mime type
		return "png"
	case "jpeg":
		return "jpg"
	}
	return ext
}
