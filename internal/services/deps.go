package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
)

// The orchestrators depend on these narrow interfaces rather than the
// concrete stores so tests can substitute in-memory fakes.

// ContentPersistence is the content item storage surface the pipeline uses.
type ContentPersistence interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	TryTransition(ctx context.Context, id primitive.ObjectID, from []models.ItemState, to models.ItemStatus) (bool, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ItemStatus) error
	SetError(ctx context.Context, id primitive.ObjectID, by, diagnostic string) error
	SaveGenerationOutputs(ctx context.Context, id primitive.ObjectID, by, framework, caption, cta string, hashtags []string) error
	SaveReviewOutputs(ctx context.Context, id primitive.ObjectID, by string, state models.ItemState, decision, notes, finalCaption, finalCTA, finalHashtags string) error
	SaveDmp(ctx context.Context, id primitive.ObjectID, dmp string) error
	SaveImage(ctx context.Context, id primitive.ObjectID, by, assetPath string) error
}

// BrandSource resolves the active brand context for a company.
type BrandSource interface {
	GetActive(ctx context.Context, companyID primitive.ObjectID) (*models.BrandContext, error)
}

// Authorizer checks company membership and permissions.
type Authorizer interface {
	Authorize(ctx context.Context, companyID primitive.ObjectID, userID, perm string) (*models.Company, error)
}

// TextCaller is the chat completion surface of the text provider.
type TextCaller interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, opts providers.ChatOptions) (*providers.ChatResult, error)
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType, link string)
	NotifyCompany(ctx context.Context, company *models.Company, title, message, notifType, link string)
}

// UsageRecorder appends best-effort usage ledger entries.
type UsageRecorder interface {
	Record(ctx context.Context, event models.UsageEvent)
}

// ImageSaver persists generated image bytes and returns the asset path.
type ImageSaver interface {
	Save(companyID, contentItemID, providerTag string, data []byte, ext string) (string, error)
}

func observeProviderCall(provider, call string, start time.Time) {
	providerCallDuration.WithLabelValues(provider, call).Observe(time.Since(start).Seconds())
}
