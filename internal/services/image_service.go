package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/logging"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/parsing"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/prompts"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
)

// DmpOptions carries the optional creative direction for a design
// mega-prompt request.
type DmpOptions struct {
	Scene           string   `json:"scene,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Lighting        string   `json:"lighting,omitempty"`
	AspectRatio     string   `json:"aspectRatio,omitempty"`
	ReferenceImages []string `json:"referenceImages,omitempty"`
}

// ImageOptions selects the image provider and rendering parameters.
// Force regenerates the mega-prompt even when one is already stored.
type ImageOptions struct {
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

// ImageService runs the visual stage: produce the design mega-prompt from
// the finalized copy, then render it through one of the registered image
// providers and store the asset.
type ImageService struct {
	store     ContentPersistence
	brands    BrandSource
	companies Authorizer
	text      TextCaller
	images    *providers.ImageRegistry
	assets    ImageSaver
	notifier  Notifier
	usage     UsageRecorder
}

// NewImageService wires the image pipeline orchestrator
func NewImageService(store ContentPersistence, brands BrandSource, companies Authorizer, text TextCaller, images *providers.ImageRegistry, assets ImageSaver, notifier Notifier, usage UsageRecorder) *ImageService {
	return &ImageService{
		store:     store,
		brands:    brands,
		companies: companies,
		text:      text,
		images:    images,
		assets:    assets,
		notifier:  notifier,
		usage:     usage,
	}
}

// GenerateDmp produces and persists the design mega-prompt for an item.
// The raw provider output is stored even when it fails mega-prompt
// validation later, so a designer can inspect and hand-edit it.
func (s *ImageService) GenerateDmp(ctx context.Context, itemID primitive.ObjectID, userID string, opts DmpOptions) (*models.ContentItem, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.companies.Authorize(ctx, item.CompanyID, userID, models.PermGenerateContent); err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.DraftCaption()) == "" {
		return nil, conflict(CodeMissingCaption, "this item has no caption to design from")
	}

	log.Printf("🎨 [DMP] Generating design mega-prompt for item %s (user %s)", itemID.Hex(), userID)

	if _, err := s.generateDmp(ctx, item, userID, opts); err != nil {
		if setErr := s.store.SetError(ctx, itemID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [DMP] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
		}
		return nil, err
	}
	return s.store.GetByID(ctx, itemID)
}

func (s *ImageService) generateDmp(ctx context.Context, item *models.ContentItem, userID string, opts DmpOptions) (string, error) {
	brand, err := s.brands.GetActive(ctx, item.CompanyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("no active brand context is configured for this company")
		}
		return "", err
	}

	userPrompt := prompts.Render(prompts.DmpUserPrompt, map[string]string{
		"imageInstruction":  brand.ImageInstruction,
		"caption":           item.DraftCaption(),
		"cta":               item.DraftCTA(),
		"extraInstructions": extraDirection(opts),
	})

	start := time.Now()
	chat, err := s.text.Chat(ctx, prompts.DmpSystemPrompt, userPrompt, providers.ChatOptions{
		Images: opts.ReferenceImages,
	})
	observeProviderCall("openai", "dmp", start)
	if err != nil {
		return "", fmt.Errorf("design mega-prompt call failed: %w", err)
	}

	s.usage.Record(ctx, models.UsageEvent{
		CompanyID:    item.CompanyID,
		UserID:       userID,
		Provider:     "openai",
		Model:        chat.Model,
		CallType:     models.UsageCallDmp,
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
	})

	// Persist whatever came back before validating its shape. A DMP that
	// fails validation is still useful to a human editing it by hand.
	if err := s.store.SaveDmp(ctx, item.ID, chat.Content); err != nil {
		return "", err
	}
	return chat.Content, nil
}

// extraDirection folds the optional overrides into an instruction block
// appended to the mega-prompt request. Empty options yield an empty block.
func extraDirection(opts DmpOptions) string {
	var lines []string
	if opts.Scene != "" {
		lines = append(lines, "Scene: "+opts.Scene)
	}
	if opts.Mood != "" {
		lines = append(lines, "Mood: "+opts.Mood)
	}
	if opts.Lighting != "" {
		lines = append(lines, "Lighting: "+opts.Lighting)
	}
	if opts.AspectRatio != "" {
		lines = append(lines, "Aspect ratio: "+opts.AspectRatio)
	}
	if len(opts.ReferenceImages) > 0 {
		lines = append(lines, "Match the style of the attached reference images.")
	}
	if len(lines) == 0 {
		return ""
	}
	return "ADDITIONAL DIRECTION\n" + strings.Join(lines, "\n")
}

// GenerateImage renders the item's stored mega-prompt through an image
// provider and completes the design stage. When no mega-prompt exists yet
// one is generated first with default options.
func (s *ImageService) GenerateImage(ctx context.Context, itemID primitive.ObjectID, userID string, opts ImageOptions) (*models.ContentItem, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.Authorize(ctx, item.CompanyID, userID, models.PermGenerateContent)
	if err != nil {
		return nil, err
	}

	dmp := item.Dmp
	if strings.TrimSpace(dmp) == "" || opts.Force {
		if strings.TrimSpace(item.DraftCaption()) == "" {
			return nil, conflict(CodeMissingCaption, "this item has no caption to design from")
		}
		log.Printf("🎨 [IMAGE] Generating mega-prompt for item %s (force=%t)", itemID.Hex(), opts.Force)
		dmp, err = s.generateDmp(ctx, item, userID, DmpOptions{AspectRatio: opts.AspectRatio})
		if err != nil {
			if setErr := s.store.SetError(ctx, itemID, userID, err.Error()); setErr != nil {
				log.Printf("❌ [IMAGE] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
			}
			return nil, err
		}
	}

	mega, err := parsing.ParseMegaPrompt(dmp)
	if err != nil {
		failErr := fmt.Errorf("stored mega-prompt is not usable: %w", err)
		if setErr := s.store.SetError(ctx, itemID, userID, failErr.Error()); setErr != nil {
			log.Printf("❌ [IMAGE] Failed to record error state for item %s: %v", itemID.Hex(), setErr)
		}
		return nil, failErr
	}

	return s.renderAndStore(ctx, item, company, userID, mega.FlatPrompt(), opts)
}

// GenerateImageFromCustomDmp renders a hand-edited prompt verbatim. The
// text is persisted as the item's mega-prompt but deliberately skips the
// MEGAPROMPT/NEGATIVE shape validation.
func (s *ImageService) GenerateImageFromCustomDmp(ctx context.Context, itemID primitive.ObjectID, userID, dmpText string, opts ImageOptions) (*models.ContentItem, error) {
	if strings.TrimSpace(dmpText) == "" {
		return nil, fmt.Errorf("custom prompt text is required")
	}

	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.Authorize(ctx, item.CompanyID, userID, models.PermGenerateContent)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveDmp(ctx, itemID, dmpText); err != nil {
		return nil, err
	}
	return s.renderAndStore(ctx, item, company, userID, dmpText, opts)
}

func (s *ImageService) renderAndStore(ctx context.Context, item *models.ContentItem, company *models.Company, userID, prompt string, opts ImageOptions) (*models.ContentItem, error) {
	provider, err := s.images.Get(opts.Provider)
	if err != nil {
		return nil, err
	}
	tag := provider.Tag()

	runLog := logging.WithProvider(logging.WithItem(item.ID.Hex(), item.CompanyID.Hex(), userID), tag, opts.Model)
	runLog.Info("image render started")

	start := time.Now()
	result, err := provider.Generate(ctx, prompt, opts.Model, opts.AspectRatio)
	observeProviderCall(tag, "image", start)
	if err != nil {
		imageRuns.WithLabelValues(tag, outcomeFailure).Inc()
		failErr := fmt.Errorf("image generation via %s failed: %w", tag, err)
		if setErr := s.store.SetError(ctx, item.ID, userID, failErr.Error()); setErr != nil {
			log.Printf("❌ [IMAGE] Failed to record error state for item %s: %v", item.ID.Hex(), setErr)
		}
		s.notifier.Notify(ctx, userID, "Image generation failed", failErr.Error(), models.NotificationTypeError, "")
		return nil, failErr
	}

	assetPath, err := s.assets.Save(item.CompanyID.Hex(), item.ID.Hex(), tag, result.Bytes, result.Ext)
	if err != nil {
		imageRuns.WithLabelValues(tag, outcomeFailure).Inc()
		if setErr := s.store.SetError(ctx, item.ID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [IMAGE] Failed to record error state for item %s: %v", item.ID.Hex(), setErr)
		}
		return nil, err
	}

	if err := s.store.SaveImage(ctx, item.ID, userID, assetPath); err != nil {
		imageRuns.WithLabelValues(tag, outcomeFailure).Inc()
		if setErr := s.store.SetError(ctx, item.ID, userID, err.Error()); setErr != nil {
			log.Printf("❌ [IMAGE] Failed to record error state for item %s: %v", item.ID.Hex(), setErr)
		}
		return nil, err
	}

	imageRuns.WithLabelValues(tag, outcomeSuccess).Inc()
	runLog.Info("image render completed", "asset_path", assetPath)
	s.usage.Record(ctx, models.UsageEvent{
		CompanyID: item.CompanyID,
		UserID:    userID,
		Provider:  tag,
		Model:     opts.Model,
		CallType:  models.UsageCallImage,
	})
	s.notifier.NotifyCompany(ctx, company, "Design completed",
		fmt.Sprintf("The image for %q is ready", item.Theme),
		models.NotificationTypeSuccess, "/content/"+item.ID.Hex())

	return s.store.GetByID(ctx, item.ID)
}
