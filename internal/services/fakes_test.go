package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/providers"
)

// In-memory fakes for the orchestrator dependencies.

type fakeStore struct {
	items map[primitive.ObjectID]*models.ContentItem

	denyTransition  bool
	transitionCalls int
	errorDiagnostic string

	generationSaveErr error
	imageSaveErr      error
}

func newFakeStore(items ...*models.ContentItem) *fakeStore {
	s := &fakeStore{items: make(map[primitive.ObjectID]*models.ContentItem)}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *fakeStore) TryTransition(_ context.Context, id primitive.ObjectID, from []models.ItemState, to models.ItemStatus) (bool, error) {
	s.transitionCalls++
	if s.denyTransition {
		return false, nil
	}
	item, ok := s.items[id]
	if !ok {
		return false, nil
	}
	current := models.NormalizeState(string(item.Status.State))
	allowed := false
	for _, st := range from {
		if st == current {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	item.Status = to
	return true, nil
}

func (s *fakeStore) SetStatus(_ context.Context, id primitive.ObjectID, status models.ItemStatus) error {
	if item, ok := s.items[id]; ok {
		item.Status = status
	}
	return nil
}

func (s *fakeStore) SetError(_ context.Context, id primitive.ObjectID, by, diagnostic string) error {
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	diagnostic = truncateRunes(diagnostic, maxDiagnosticLen)
	s.errorDiagnostic = diagnostic
	item.Status = models.NewStatus(models.StateError, by, diagnostic)
	item.ReviewNotes = diagnostic
	return nil
}

func (s *fakeStore) SaveGenerationOutputs(_ context.Context, id primitive.ObjectID, by, framework, caption, cta string, hashtags []string) error {
	if s.generationSaveErr != nil {
		return s.generationSaveErr
	}
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.FrameworkUsed = framework
	item.CaptionOutput = caption
	item.CtaOutput = cta
	item.Hashtags = hashtags
	item.HashtagsOutput = joinHashtags(hashtags)
	item.ReviewNotes = ""
	item.Status = models.NewStatus(models.StateReview, by, "Caption generated")
	return nil
}

func joinHashtags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

func (s *fakeStore) SaveReviewOutputs(_ context.Context, id primitive.ObjectID, by string, state models.ItemState, decision, notes, finalCaption, finalCTA, finalHashtags string) error {
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.ReviewDecision = decision
	item.ReviewNotes = notes
	item.FinalCaption = finalCaption
	item.FinalCTA = finalCTA
	item.FinalHashtags = finalHashtags
	item.Status = models.NewStatus(state, by, "Review completed")
	return nil
}

func (s *fakeStore) SaveDmp(_ context.Context, id primitive.ObjectID, dmp string) error {
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Dmp = dmp
	return nil
}

func (s *fakeStore) SaveImage(_ context.Context, id primitive.ObjectID, by, assetPath string) error {
	if s.imageSaveErr != nil {
		return s.imageSaveErr
	}
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.ImageGenerated = assetPath
	item.Status = models.NewStatus(models.StateDesignCompleted, by, "Image generated")
	return nil
}

type fakeBrands struct {
	brand *models.BrandContext
	err   error
}

func (b *fakeBrands) GetActive(context.Context, primitive.ObjectID) (*models.BrandContext, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.brand, nil
}

type fakeAuth struct {
	company *models.Company
	err     error
}

func (a *fakeAuth) Authorize(context.Context, primitive.ObjectID, string, string) (*models.Company, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.company, nil
}

type chatCall struct {
	system string
	user   string
	opts   providers.ChatOptions
}

type chatReply struct {
	content string
	err     error
}

type fakeText struct {
	calls   []chatCall
	replies []chatReply
}

func (t *fakeText) Chat(_ context.Context, system, user string, opts providers.ChatOptions) (*providers.ChatResult, error) {
	t.calls = append(t.calls, chatCall{system: system, user: user, opts: opts})
	if len(t.replies) == 0 {
		return nil, fmt.Errorf("unexpected chat call")
	}
	reply := t.replies[0]
	t.replies = t.replies[1:]
	if reply.err != nil {
		return nil, reply.err
	}
	return &providers.ChatResult{
		Content: reply.content,
		Model:   "test-model",
		Usage:   providers.ChatUsage{PromptTokens: 10, CompletionTokens: 20},
	}, nil
}

type sentNotification struct {
	userID string
	title  string
	typ    string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, userID, title, _, notifType, _ string) {
	n.sent = append(n.sent, sentNotification{userID: userID, title: title, typ: notifType})
}

func (n *fakeNotifier) NotifyCompany(ctx context.Context, company *models.Company, title, message, notifType, link string) {
	if company == nil {
		return
	}
	for _, id := range company.MemberIDs() {
		n.Notify(ctx, id, title, message, notifType, link)
	}
}

type fakeUsage struct {
	events []models.UsageEvent
}

func (u *fakeUsage) Record(_ context.Context, event models.UsageEvent) {
	event.CreatedAt = time.Now()
	u.events = append(u.events, event)
}

type savedAsset struct {
	companyID string
	itemID    string
	tag       string
	ext       string
	size      int
}

type fakeAssets struct {
	saved []savedAsset
	err   error
}

func (a *fakeAssets) Save(companyID, itemID, tag string, data []byte, ext string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, savedAsset{companyID: companyID, itemID: itemID, tag: tag, ext: ext, size: len(data)})
	return fmt.Sprintf("%s/%s/%s-1700000000.%s", companyID, itemID, tag, ext), nil
}

type fakeImageProvider struct {
	tag     string
	prompts []string
	result  *providers.ImageResult
	err     error
}

func (p *fakeImageProvider) Tag() string { return p.tag }

func (p *fakeImageProvider) Generate(_ context.Context, prompt, _, _ string) (*providers.ImageResult, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

// testCompany is a single-owner company shared by the orchestrator tests.
func testCompany(owner string) *models.Company {
	return &models.Company{ID: primitive.NewObjectID(), Name: "Acme", OwnerID: owner}
}

func testBrand() *models.BrandContext {
	return &models.BrandContext{
		BrandPack:        "Acme voice: friendly and direct.",
		BrandCapability:  "We sell running shoes.",
		WriterAgent:      "You are the Acme copywriter.",
		ReviewerAgent:    "You are the Acme brand reviewer.",
		ImageInstruction: "Flat pastel illustration style.",
		EmojiRule:        "light",
		IsActive:         true,
	}
}
