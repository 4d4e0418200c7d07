package parsing

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Frameworks is the closed set of caption frameworks the writer agent may
// pick from. Parsed values are matched case-insensitively and stored in
// this canonical uppercase form.
var Frameworks = []string{
	"EDUCATIONAL", "PSA", "STORY", "CHECKLIST", "PROBLEM-SOLUTION", "PROMO", "COMMUNITY",
}

// ValidFramework canonicalizes a framework value, reporting whether it is
// one of the allowed set.
func ValidFramework(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, f := range Frameworks {
		if f == upper {
			return f, true
		}
	}
	return "", false
}

// CaptionResult is the structured output of a caption generation call.
type CaptionResult struct {
	Framework string   `json:"framework"`
	Caption   string   `json:"caption"`
	CTA       string   `json:"cta"`
	Hashtags  []string `json:"hashtags"`
}

// ParseCaption parses a writer-agent response, trying strict JSON first
// and falling back to the labeled-text format. The fallback exists because
// the provider does not reliably honor the JSON response format request.
func ParseCaption(raw string) (*CaptionResult, error) {
	result, err := parseCaptionJSON(raw)
	if err == nil {
		return result, nil
	}
	// A syntactically valid JSON answer with a framework outside the
	// allowed set is a hard failure, not a reason to try the text format.
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Reason == "Invalid framework" {
		return nil, err
	}
	return parseCaptionText(raw)
}

func parseCaptionJSON(raw string) (*CaptionResult, error) {
	var payload struct {
		Framework string    `json:"framework"`
		Caption   string    `json:"caption"`
		CTA       string    `json:"cta"`
		Hashtags  *[]string `json:"hashtags"`
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, &ParseError{Stage: "caption", Reason: "not valid JSON", Raw: raw}
	}

	framework, ok := ValidFramework(payload.Framework)
	if !ok {
		return nil, &ParseError{Stage: "caption", Reason: "Invalid framework", Raw: raw}
	}

	caption := strings.TrimSpace(payload.Caption)
	cta := strings.TrimSpace(payload.CTA)
	if caption == "" || cta == "" || payload.Hashtags == nil {
		return nil, &ParseError{Stage: "caption", Reason: "missing required fields", Raw: raw}
	}

	hashtags := make([]string, 0, len(*payload.Hashtags))
	for _, tag := range *payload.Hashtags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			hashtags = append(hashtags, tag)
		}
	}

	return &CaptionResult{
		Framework: framework,
		Caption:   caption,
		CTA:       cta,
		Hashtags:  hashtags,
	}, nil
}

var (
	frameworkLineRe = regexp.MustCompile(`(?im)^\s*FRAMEWORK\s*:\s*(.+)$`)
	captionBlockRe  = regexp.MustCompile(`(?is)Caption\s*:\s*(.*?)\s*CTA\s*:`)
	ctaLineRe       = regexp.MustCompile(`(?im)^\s*CTA\s*:\s*(.+)$`)
	hashtagsBlockRe = regexp.MustCompile(`(?is)Hashtags\s*:\s*(.+)$`)
)

func parseCaptionText(raw string) (*CaptionResult, error) {
	frameworkMatch := frameworkLineRe.FindStringSubmatch(raw)
	if frameworkMatch == nil {
		return nil, &ParseError{Stage: "caption", Reason: "missing FRAMEWORK line", Raw: raw}
	}
	framework, ok := ValidFramework(frameworkMatch[1])
	if !ok {
		return nil, &ParseError{Stage: "caption", Reason: "Invalid framework", Raw: raw}
	}

	captionMatch := captionBlockRe.FindStringSubmatch(raw)
	if captionMatch == nil || strings.TrimSpace(captionMatch[1]) == "" {
		return nil, &ParseError{Stage: "caption", Reason: "missing Caption block", Raw: raw}
	}
	caption := strings.TrimSpace(captionMatch[1])

	ctaMatch := ctaLineRe.FindStringSubmatch(raw)
	if ctaMatch == nil || strings.TrimSpace(ctaMatch[1]) == "" {
		return nil, &ParseError{Stage: "caption", Reason: "missing CTA line", Raw: raw}
	}
	cta := strings.TrimSpace(ctaMatch[1])

	hashtagsMatch := hashtagsBlockRe.FindStringSubmatch(raw)
	if hashtagsMatch == nil {
		return nil, &ParseError{Stage: "caption", Reason: "missing Hashtags line", Raw: raw}
	}
	var hashtags []string
	for _, token := range strings.Fields(hashtagsMatch[1]) {
		if strings.HasPrefix(token, "#") {
			hashtags = append(hashtags, token)
		}
	}
	if len(hashtags) == 0 {
		return nil, &ParseError{Stage: "caption", Reason: "no hashtags found", Raw: raw}
	}

	return &CaptionResult{
		Framework: framework,
		Caption:   caption,
		CTA:       cta,
		Hashtags:  hashtags,
	}, nil
}

// stripCodeFence unwraps a ```json fenced block when the model wraps its
// JSON answer in markdown.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
