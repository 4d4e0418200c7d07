package providers

import "fmt"

// Error is a typed provider failure carrying the HTTP status and a
// truncated copy of the raw response body for operator diagnosis. Provider
// calls return this instead of panicking or leaking transport errors
// upward untyped.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Truncate limits a diagnostic string to maxLen characters.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
