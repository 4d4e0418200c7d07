package services

import (
	"errors"
	"fmt"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/parsing"
)

// Machine-readable conflict codes surfaced as 409s.
const (
	CodeAlreadyGenerating = "ALREADY_GENERATING"
	CodeAlreadyReviewing  = "ALREADY_REVIEWING"
	CodeStatusBlocked     = "STATUS_BLOCKED"
	CodeMissingCaption    = "MISSING_CAPTION"
)

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	ErrUnauthorized = errors.New("missing or invalid requester")
	ErrForbidden    = errors.New("access to this company is not allowed")
	ErrNotFound     = errors.New("not found")
)

// ConflictError reports a state-machine conflict: wrong current state, an
// in-flight run, or a missing prerequisite field. It never accompanies a
// state mutation beyond the guard attempt itself.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func conflict(code, format string, args ...any) *ConflictError {
	return &ConflictError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// parseDiagnostic folds the raw provider response into a parse failure so
// the text an operator needs to debug the prompt lands in reviewNotes.
// SetError truncates, so a huge response cannot bloat the document.
func parseDiagnostic(prefix string, err error) error {
	var parseErr *parsing.ParseError
	if errors.As(err, &parseErr) && parseErr.Raw != "" {
		return fmt.Errorf("%s: %s\n\nRaw response:\n%s", prefix, parseErr.Reason, parseErr.Raw)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
