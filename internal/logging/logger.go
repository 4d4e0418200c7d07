package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithItem returns a logger with content item context fields attached.
// Use this for all logging within a generation pipeline run.
func WithItem(itemID, companyID, userID string) *slog.Logger {
	return slog.With(
		"content_item_id", itemID,
		"company_id", companyID,
		"user_id", userID,
	)
}

// WithProvider returns a logger scoped to a specific provider call.
func WithProvider(logger *slog.Logger, provider, model string) *slog.Logger {
	return logger.With(
		"provider", provider,
		"model", model,
	)
}
