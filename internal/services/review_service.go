package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/parsing"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/prompts"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
)

// ReviewService runs the review stage: feed the generated copy to the
// reviewer agent, parse its verdict, and persist the finalized fields.
type ReviewService struct {
	store     ContentPersistence
	brands    BrandSource
	companies Authorizer
	text      TextCaller
	notifier  Notifier
	usage     UsageRecorder
}

// NewReviewService wires the review orchestrator
func NewReviewService(store ContentPersistence, brands BrandSource, companies Authorizer, text TextCaller, notifier Notifier, usage UsageRecorder) *ReviewService {
	return &ReviewService{
		store:     store,
		brands:    brands,
		companies: companies,
		text:      text,
		notifier:  notifier,
		usage:     usage,
	}
}

// Review runs the reviewer agent over one item's generated caption and
// moves it to Ready or Needs Revision. It requires a generated caption and
// a reviewable state; conflicts leave the item untouched.
func (s *ReviewService) Review(ctx context.Context, itemID primitive.ObjectID, userID string) (*models.ContentItem, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.companies.Authorize(ctx, item.CompanyID, userID, models.PermGenerateContent); err != nil {
		return nil, err
	}

	state := models.NormalizeState(string(item.Status.State))
	if state == models.StateReviewing {
		reviewRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeAlreadyReviewing, "review is already running for this item")
	}
	if strings.TrimSpace(item.CaptionOutput) == "" {
		reviewRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeMissingCaption, "this item has no generated caption to review")
	}
	if !models.CanStartReview(state) {
		reviewRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeStatusBlocked, "cannot review while the item is in state %q", state)
	}

	won, err := s.store.TryTransition(ctx, itemID, models.ReviewStartStates(), models.NewStatus(models.StateReviewing, userID, "Reviewing caption"))
	if err != nil {
		return nil, err
	}
	if !won {
		reviewRuns.WithLabelValues(outcomeConflict).Inc()
		return nil, conflict(CodeAlreadyReviewing, "review is already running for this item")
	}

	log.Printf("🔎 [REVIEW] Reviewing item %s (company %s, user %s)", itemID.Hex(), item.CompanyID.Hex(), userID)

	if err := s.review(ctx, item, userID); err != nil {
		reviewRuns.WithLabelValues(outcomeFailure).Inc()
		if setErr := s.store.SetError(ctx, itemID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [REVIEW] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
		}
		s.notifier.Notify(ctx, userID, "Review failed", err.Error(), models.NotificationTypeError, "")
		return nil, err
	}

	reviewRuns.WithLabelValues(outcomeSuccess).Inc()
	updated, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, userID, "Review completed",
		fmt.Sprintf("Review verdict for %q: %s", item.Theme, updated.ReviewDecision),
		models.NotificationTypeSuccess, "/content/"+itemID.Hex())
	return updated, nil
}

func (s *ReviewService) review(ctx context.Context, item *models.ContentItem, userID string) error {
	brand, err := s.brands.GetActive(ctx, item.CompanyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("no active brand context is configured for this company")
		}
		return err
	}

	hashtags := item.HashtagsOutput
	if hashtags == "" {
		hashtags = strings.Join(item.Hashtags, " ")
	}

	userPrompt := prompts.Render(prompts.ReviewUserPrompt, map[string]string{
		"caption":         item.CaptionOutput,
		"cta":             item.CtaOutput,
		"hashtags":        hashtags,
		"channels":        strings.Join(item.Channels, ", "),
		"primaryGoal":     item.PrimaryGoal,
		"brandPack":       brand.BrandPack,
		"brandCapability": brand.BrandCapability,
		"emojiPolicy":     prompts.DescribeEmojiPolicy(brand.EmojiRule),
	})

	start := time.Now()
	chat, err := s.text.Chat(ctx, brand.ReviewerAgent, userPrompt, providers.ChatOptions{JSONMode: true})
	observeProviderCall("openai", "review", start)
	if err != nil {
		return fmt.Errorf("review provider call failed: %w", err)
	}

	s.usage.Record(ctx, models.UsageEvent{
		CompanyID:    item.CompanyID,
		UserID:       userID,
		Provider:     "openai",
		Model:        chat.Model,
		CallType:     models.UsageCallReview,
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
	})

	result, err := parsing.ParseReview(chat.Content)
	if err != nil {
		return parseDiagnostic("review response could not be parsed", err)
	}

	// Blank finals fall back to the draft so downstream stages always
	// have copy to work with.
	finalCaption := result.FinalCaption
	if strings.TrimSpace(finalCaption) == "" {
		finalCaption = item.CaptionOutput
	}
	finalCTA := result.FinalCTA
	if strings.TrimSpace(finalCTA) == "" {
		finalCTA = item.CtaOutput
	}
	finalHashtags := result.FinalHashtags
	if strings.TrimSpace(finalHashtags) == "" {
		finalHashtags = hashtags
	}

	nextState := models.StateNeedsRevision
	decision := models.DecisionNeedsRevision
	if result.Decision == parsing.DecisionApproved {
		nextState = models.StateReady
		decision = models.DecisionApproved
	}

	return s.store.SaveReviewOutputs(ctx, item.ID, userID, nextState, decision, result.ReviewNotes, finalCaption, finalCTA, finalHashtags)
}
