package parsing

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseCaptionJSONRoundTrip(t *testing.T) {
	original := &CaptionResult{
		Framework: "PROMO",
		Caption:   "X",
		CTA:       "Y",
		Hashtags:  []string{"#a", "#b", "#c"},
	}
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseCaption(string(raw))
	if err != nil {
		t.Fatalf("ParseCaption() error = %v", err)
	}
	if !reflect.DeepEqual(parsed, original) {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, original)
	}
}

func TestParseCaptionFallbackEquivalence(t *testing.T) {
	jsonRaw := `{"framework":"PROMO","caption":"X","cta":"Y","hashtags":["#a","#b","#c"]}`
	textRaw := "FRAMEWORK: promo\nCaption:\nX\nCTA: Y\nHashtags: #a #b #c"

	fromJSON, err := ParseCaption(jsonRaw)
	if err != nil {
		t.Fatalf("JSON parse error: %v", err)
	}
	fromText, err := ParseCaption(textRaw)
	if err != nil {
		t.Fatalf("text parse error: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromText) {
		t.Errorf("fallback not equivalent:\njson: %+v\ntext: %+v", fromJSON, fromText)
	}
}

func TestParseCaptionInvalidFramework(t *testing.T) {
	inputs := []string{
		`{"framework":"MARKETING","caption":"X","cta":"Y","hashtags":["#a"]}`,
		"FRAMEWORK: MARKETING\nCaption:\nX\nCTA: Y\nHashtags: #a",
	}
	for _, raw := range inputs {
		if _, err := ParseCaption(raw); err == nil {
			t.Errorf("expected parse failure for framework MARKETING, input: %q", raw)
		} else {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *ParseError, got %T", err)
			} else if parseErr.Raw != raw {
				t.Error("parse error should preserve raw text")
			}
		}
	}
}

func TestParseCaptionFallbackRequiresHashtags(t *testing.T) {
	raw := "FRAMEWORK: STORY\nCaption:\nOnce upon a time\nCTA: Read more\nHashtags: none provided"
	if _, err := ParseCaption(raw); err == nil {
		t.Error("fallback with zero # tokens should fail")
	}
}

func TestParseCaptionJSONMissingFields(t *testing.T) {
	inputs := []string{
		`{"framework":"PROMO","caption":"X","cta":"Y"}`,
		`{"framework":"PROMO","caption":"","cta":"Y","hashtags":["#a"]}`,
		`{"framework":"PROMO","caption":"X","cta":"","hashtags":["#a"]}`,
	}
	for _, raw := range inputs {
		if _, err := ParseCaption(raw); err == nil {
			t.Errorf("expected failure for incomplete JSON %q", raw)
		}
	}
}

func TestParseCaptionFencedJSON(t *testing.T) {
	raw := "```json\n{\"framework\":\"COMMUNITY\",\"caption\":\"Join us\",\"cta\":\"Sign up\",\"hashtags\":[\"#local\"]}\n```"
	parsed, err := ParseCaption(raw)
	if err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
	if parsed.Framework != "COMMUNITY" || parsed.Caption != "Join us" {
		t.Errorf("unexpected result %+v", parsed)
	}
}

func TestParseCaptionMultilineCaptionBlock(t *testing.T) {
	raw := "FRAMEWORK: educational\nCaption:\nLine one.\nLine two.\nCTA: Learn more\nHashtags: #tips #howto #learn"
	parsed, err := ParseCaption(raw)
	if err != nil {
		t.Fatalf("ParseCaption() error = %v", err)
	}
	if parsed.Caption != "Line one.\nLine two." {
		t.Errorf("caption block = %q", parsed.Caption)
	}
	if parsed.Framework != "EDUCATIONAL" {
		t.Errorf("framework = %q", parsed.Framework)
	}
	if len(parsed.Hashtags) != 3 {
		t.Errorf("hashtags = %v", parsed.Hashtags)
	}
}
