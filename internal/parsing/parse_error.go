package parsing

import "fmt"

// ParseError reports that a provider response satisfied neither the
// strict-JSON shape nor the labeled-text fallback. Raw preserves the full
// response text for operator diagnosis; it is never discarded.
type ParseError struct {
	Stage  string // "caption", "review", or "megaprompt"
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse failed: %s", e.Stage, e.Reason)
}
