package parsing

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Normalized review decisions.
const (
	DecisionApproved      = "APPROVED"
	DecisionNeedsRevision = "NEEDS REVISION"
)

// NormalizeDecision maps free-form reviewer decision text onto one of the
// two normalized decisions via case-insensitive substring matching.
// "Approved with edits" normalizes to APPROVED; "Needs further Revision"
// normalizes to NEEDS REVISION. Text containing neither token fails.
func NormalizeDecision(s string) (string, bool) {
	upper := strings.ToUpper(s)
	if strings.Contains(upper, "APPROVE") {
		return DecisionApproved, true
	}
	if strings.Contains(upper, "NEEDS") && strings.Contains(upper, "REVISION") {
		return DecisionNeedsRevision, true
	}
	return "", false
}

// ReviewResult is the structured output of a review call. Final fields may
// be blank; the orchestrator falls back to the pre-review draft values.
type ReviewResult struct {
	Decision      string
	ReviewNotes   string
	FinalCaption  string
	FinalCTA      string
	FinalHashtags string
}

// ParseReview parses a reviewer-agent response, strict JSON first, then
// the labeled-text fallback.
func ParseReview(raw string) (*ReviewResult, error) {
	if result, err := parseReviewJSON(raw); err == nil {
		return result, nil
	}
	return parseReviewText(raw)
}

// flexString accepts either a JSON string or an array of strings, which
// the model sometimes returns for finalHashtags, and joins the latter
// with spaces.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = flexString(strings.Join(list, " "))
	return nil
}

func parseReviewJSON(raw string) (*ReviewResult, error) {
	var payload struct {
		Decision      string     `json:"decision"`
		ReviewNotes   flexString `json:"reviewNotes"`
		FinalCaption  string     `json:"finalCaption"`
		FinalCTA      string     `json:"finalCTA"`
		FinalHashtags flexString `json:"finalHashtags"`
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, &ParseError{Stage: "review", Reason: "not valid JSON", Raw: raw}
	}

	decision, ok := NormalizeDecision(payload.Decision)
	if !ok {
		return nil, &ParseError{Stage: "review", Reason: "unrecognized decision", Raw: raw}
	}

	return &ReviewResult{
		Decision:      decision,
		ReviewNotes:   strings.TrimSpace(string(payload.ReviewNotes)),
		FinalCaption:  strings.TrimSpace(payload.FinalCaption),
		FinalCTA:      strings.TrimSpace(payload.FinalCTA),
		FinalHashtags: strings.TrimSpace(string(payload.FinalHashtags)),
	}, nil
}

// reviewLabelRe matches the fallback section labels: case-insensitive,
// tolerant of a leading markdown # marker and an optional trailing colon.
var reviewLabelRe = regexp.MustCompile(`(?i)^\s*#{0,4}\s*(DECISION|NOTES|FINAL CAPTION|FINAL CTA|FINAL HASHTAGS)\s*:?\s*(.*)$`)

func parseReviewText(raw string) (*ReviewResult, error) {
	sections := splitLabeledSections(raw)

	decisionText, ok := sections["DECISION"]
	if !ok {
		// Never invent a decision for the model.
		return nil, &ParseError{Stage: "review", Reason: "missing DECISION line", Raw: raw}
	}
	decision, ok := NormalizeDecision(decisionText)
	if !ok {
		return nil, &ParseError{Stage: "review", Reason: "unrecognized decision", Raw: raw}
	}

	return &ReviewResult{
		Decision:      decision,
		ReviewNotes:   sections["NOTES"],
		FinalCaption:  sections["FINAL CAPTION"],
		FinalCTA:      sections["FINAL CTA"],
		FinalHashtags: sections["FINAL HASHTAGS"],
	}, nil
}

// splitLabeledSections slices the response into label -> body pairs. Text
// on the label line itself and the lines up to the next label both belong
// to the section.
func splitLabeledSections(raw string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var buf []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if match := reviewLabelRe.FindStringSubmatch(line); match != nil {
			flush()
			current = strings.ToUpper(match[1])
			if rest := strings.TrimSpace(match[2]); rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}
