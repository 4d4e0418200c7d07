package parsing

import "testing"

func TestNormalizeDecision(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"APPROVED", DecisionApproved, true},
		{"Approved with edits", DecisionApproved, true},
		{"approve", DecisionApproved, true},
		{"Needs further Revision", DecisionNeedsRevision, true},
		{"NEEDS REVISION", DecisionNeedsRevision, true},
		{"needs a revision pass", DecisionNeedsRevision, true},
		{"rejected", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeDecision(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeDecision(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseReviewJSON(t *testing.T) {
	raw := `{"decision":"Needs Revision","reviewNotes":"tone is off","finalCaption":"Buy today!","finalCTA":"Shop","finalHashtags":"#sale"}`
	parsed, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview() error = %v", err)
	}
	if parsed.Decision != DecisionNeedsRevision {
		t.Errorf("decision = %q", parsed.Decision)
	}
	if parsed.FinalCaption != "Buy today!" || parsed.FinalCTA != "Shop" || parsed.FinalHashtags != "#sale" {
		t.Errorf("unexpected finals: %+v", parsed)
	}
}

func TestParseReviewJSONHashtagArray(t *testing.T) {
	raw := `{"decision":"APPROVED","reviewNotes":"","finalCaption":"c","finalCTA":"x","finalHashtags":["#a","#b"]}`
	parsed, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview() error = %v", err)
	}
	if parsed.FinalHashtags != "#a #b" {
		t.Errorf("finalHashtags = %q, want joined string", parsed.FinalHashtags)
	}
}

func TestParseReviewLabeledText(t *testing.T) {
	raw := "DECISION: Needs Revision\nNOTES:\n- fix tone\nFINAL CAPTION:\nBuy today!\nFINAL CTA:\nShop\nFINAL HASHTAGS:\n#sale"
	parsed, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview() error = %v", err)
	}
	if parsed.Decision != DecisionNeedsRevision {
		t.Errorf("decision = %q", parsed.Decision)
	}
	if parsed.ReviewNotes != "- fix tone" {
		t.Errorf("notes = %q", parsed.ReviewNotes)
	}
	if parsed.FinalCaption != "Buy today!" || parsed.FinalCTA != "Shop" || parsed.FinalHashtags != "#sale" {
		t.Errorf("unexpected finals: %+v", parsed)
	}
}

func TestParseReviewLabelTolerance(t *testing.T) {
	// Markdown heading markers, mixed case, missing colon on one label.
	raw := "## Decision: approved\n# notes\nlooks good\n## Final Caption:\nGreat stuff\nFINAL CTA\nGo\nfinal hashtags:\n#go"
	parsed, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview() error = %v", err)
	}
	if parsed.Decision != DecisionApproved {
		t.Errorf("decision = %q", parsed.Decision)
	}
	if parsed.ReviewNotes != "looks good" {
		t.Errorf("notes = %q", parsed.ReviewNotes)
	}
	if parsed.FinalCaption != "Great stuff" || parsed.FinalCTA != "Go" || parsed.FinalHashtags != "#go" {
		t.Errorf("unexpected finals: %+v", parsed)
	}
}

func TestParseReviewMissingDecision(t *testing.T) {
	raw := "NOTES:\nsome notes\nFINAL CAPTION:\ncap"
	if _, err := ParseReview(raw); err == nil {
		t.Error("missing DECISION line must fail, never invent a decision")
	}
}

func TestParseReviewUnrecognizedDecision(t *testing.T) {
	raw := "DECISION: maybe later\nNOTES:\nn"
	if _, err := ParseReview(raw); err == nil {
		t.Error("decision with neither token must fail")
	}
}

func TestParseReviewBlankFinals(t *testing.T) {
	raw := "DECISION: APPROVED\nNOTES:\nfine"
	parsed, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview() error = %v", err)
	}
	if parsed.FinalCaption != "" || parsed.FinalCTA != "" || parsed.FinalHashtags != "" {
		t.Errorf("absent sections should be blank, got %+v", parsed)
	}
}
