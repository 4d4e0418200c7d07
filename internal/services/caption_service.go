package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/logging"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/parsing"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/prompts"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
)

// maxBulkItems caps one bulk generation request.
const maxBulkItems = 50

// CaptionService runs the caption generation stage: guard the state
// machine, build the writer prompt from the brand context, call the text
// provider, parse the response, and persist the outputs.
type CaptionService struct {
	store     ContentPersistence
	brands    BrandSource
	companies Authorizer
	text      TextCaller
	notifier  Notifier
	usage     UsageRecorder
}

// NewCaptionService wires the caption generation orchestrator
func NewCaptionService(store ContentPersistence, brands BrandSource, companies Authorizer, text TextCaller, notifier Notifier, usage UsageRecorder) *CaptionService {
	return &CaptionService{
		store:     store,
		brands:    brands,
		companies: companies,
		text:      text,
		notifier:  notifier,
		usage:     usage,
	}
}

// BulkResult summarizes a bulk generation request.
type BulkResult struct {
	Success []string `json:"success"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// Generate runs caption generation for one item and returns the updated
// document. Conflicts come back as *ConflictError and leave the item
// untouched; provider and parse failures move it to Error with the
// diagnostic in reviewNotes.
func (s *CaptionService) Generate(ctx context.Context, itemID primitive.ObjectID, userID string) (*models.ContentItem, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.companies.Authorize(ctx, item.CompanyID, userID, models.PermGenerateContent); err != nil {
		return nil, err
	}

	state := models.NormalizeState(string(item.Status.State))
	if state == models.StateGenerating {
		generationRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeAlreadyGenerating, "caption generation is already running for this item")
	}
	if !models.CanStartGeneration(state) {
		generationRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeStatusBlocked, "cannot generate a caption while the item is in state %q", state)
	}

	// The read above is advisory; this conditional write is the real
	// lock. Losing it means a concurrent caller started first.
	won, err := s.store.TryTransition(ctx, itemID, models.GenerationStartStates(), models.NewStatus(models.StateGenerating, userID, "Generating caption"))
	if err != nil {
		return nil, err
	}
	if !won {
		generationRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeAlreadyGenerating, "caption generation is already running for this item")
	}

	runLog := logging.WithItem(itemID.Hex(), item.CompanyID.Hex(), userID).With("run_id", uuid.NewString())
	runLog.Info("caption generation started")

	result, err := s.generate(ctx, item, userID)
	if err != nil {
		generationRuns.WithLabelValues(outcomeFailure).Inc()
		if setErr := s.store.SetError(ctx, itemID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [CAPTION] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
		}
		s.notifier.Notify(ctx, userID, "Caption generation failed", err.Error(), models.NotificationTypeError, "")
		return nil, err
	}

	if err := s.store.SaveGenerationOutputs(ctx, itemID, userID, result.Framework, result.Caption, result.CTA, result.Hashtags); err != nil {
		generationRuns.WithLabelValues(outcomeFailure).Inc()
		// Best effort: without this the item stays wedged in Generating.
		if setErr := s.store.SetError(ctx, itemID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [CAPTION] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
		}
		return nil, err
	}

	generationRuns.WithLabelValues(outcomeSuccess).Inc()
	runLog.Info("caption generation completed", "framework", result.Framework)
	s.notifier.Notify(ctx, userID, "Caption generated", fmt.Sprintf("Caption for %q is ready for review", item.Theme), models.NotificationTypeSuccess, "/content/"+itemID.Hex())

	return s.store.GetByID(ctx, itemID)
}

// generate performs the provider call and parsing after the item has been
// locked into Generating. Any returned error sends the item to Error.
func (s *CaptionService) generate(ctx context.Context, item *models.ContentItem, userID string) (*parsing.CaptionResult, error) {
	brand, err := s.brands.GetActive(ctx, item.CompanyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no active brand context is configured for this company")
		}
		return nil, err
	}

	userPrompt := prompts.Render(prompts.CaptionUserPrompt, map[string]string{
		"theme":           item.Theme,
		"contentType":     item.ContentType,
		"targetAudience":  item.TargetAudience,
		"primaryGoal":     item.PrimaryGoal,
		"cta":             item.CTA,
		"promoFraming":    item.PromoFraming,
		"channels":        strings.Join(item.Channels, ", "),
		"crossPromotion":  item.CrossPromotion,
		"brandHighlight":  item.BrandHighlight,
		"brandPack":       brand.BrandPack,
		"brandCapability": brand.BrandCapability,
		"emojiPolicy":     prompts.DescribeEmojiPolicy(brand.EmojiRule),
	})

	start := time.Now()
	chat, err := s.text.Chat(ctx, brand.WriterAgent, userPrompt, providers.ChatOptions{JSONMode: true})
	observeProviderCall("openai", "caption", start)
	if err != nil {
		// Some gateways reject response_format outright. One retry
		// without it; any other failure is final.
		var provErr *providers.Error
		if !errors.As(err, &provErr) || provErr.StatusCode != 400 {
			return nil, fmt.Errorf("caption provider call failed: %w", err)
		}
		log.Printf("⚠️ [CAPTION] JSON mode rejected for item %s, retrying without it", item.ID.Hex())
		start = time.Now()
		chat, err = s.text.Chat(ctx, brand.WriterAgent, userPrompt, providers.ChatOptions{JSONMode: false})
		observeProviderCall("openai", "caption", start)
		if err != nil {
			return nil, fmt.Errorf("caption provider call failed after retry: %w", err)
		}
	}

	s.usage.Record(ctx, models.UsageEvent{
		CompanyID:    item.CompanyID,
		UserID:       userID,
		Provider:     "openai",
		Model:        chat.Model,
		CallType:     models.UsageCallCaption,
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
	})

	result, err := parsing.ParseCaption(chat.Content)
	if err != nil {
		return nil, parseDiagnostic("caption response could not be parsed", err)
	}
	return result, nil
}

// GenerateBulk runs Generate sequentially over up to maxBulkItems items.
// Conflicts are reported as skipped, other failures as failed; one bad
// item never aborts the rest.
func (s *CaptionService) GenerateBulk(ctx context.Context, itemIDs []primitive.ObjectID, userID string) (*BulkResult, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("no item ids provided")
	}
	if len(itemIDs) > maxBulkItems {
		return nil, fmt.Errorf("bulk generation is limited to %d items per request", maxBulkItems)
	}

	result := &BulkResult{
		Success: []string{},
		Skipped: []string{},
		Failed:  []string{},
	}
	for _, id := range itemIDs {
		if _, err := s.Generate(ctx, id, userID); err != nil {
			var conflictErr *ConflictError
			if errors.As(err, &conflictErr) {
				result.Skipped = append(result.Skipped, id.Hex())
			} else {
				result.Failed = append(result.Failed, id.Hex())
			}
			continue
		}
		result.Success = append(result.Success, id.Hex())
	}

	log.Printf("✍️ [CAPTION] Bulk generation finished: %d ok, %d skipped, %d failed", len(result.Success), len(result.Skipped), len(result.Failed))
	return result, nil
}
