package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

func reviewableItem(companyID primitive.ObjectID) *models.ContentItem {
	item := draftItem(companyID)
	item.FrameworkUsed = "PROMO"
	item.CaptionOutput = "Run further in the new AirStride."
	item.CtaOutput = "Shop now"
	item.Hashtags = []string{"#running", "#acme", "#airstride"}
	item.HashtagsOutput = "#running #acme #airstride"
	item.Status = models.ItemStatus{State: models.StateReview}
	return item
}

func newReviewService(store *fakeStore, text *fakeText, company *models.Company) (*ReviewService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewReviewService(store, &fakeBrands{brand: testBrand()}, &fakeAuth{company: company}, text, notifier, &fakeUsage{}), notifier
}

func TestReviewApprovedJSON(t *testing.T) {
	company := testCompany("user-1")
	item := reviewableItem(company.ID)
	store := newFakeStore(item)
	text := &fakeText{replies: []chatReply{{content: `{
		"decision": "Approved with edits",
		"reviewNotes": "Tightened the opener.",
		"finalCaption": "Run further. The new AirStride is here.",
		"finalCTA": "Shop now",
		"finalHashtags": "#running #acme"
	}`}}}
	svc, notifier := newReviewService(store, text, company)

	updated, err := svc.Review(context.Background(), item.ID, "user-1")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if updated.Status.State != models.StateReady {
		t.Errorf("expected Ready, got %q", updated.Status.State)
	}
	if updated.ReviewDecision != models.DecisionApproved {
		t.Errorf("expected decision %q, got %q", models.DecisionApproved, updated.ReviewDecision)
	}
	if updated.FinalCaption != "Run further. The new AirStride is here." {
		t.Errorf("unexpected final caption: %q", updated.FinalCaption)
	}
	if text.calls[0].system != testBrand().ReviewerAgent {
		t.Errorf("system prompt should be the reviewer agent, got %q", text.calls[0].system)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].userID != "user-1" {
		t.Errorf("review completion notifies the requester only, got %+v", notifier.sent)
	}
}

func TestReviewNeedsRevisionLabeledText(t *testing.T) {
	company := testCompany("user-1")
	item := reviewableItem(company.ID)
	store := newFakeStore(item)
	text := &fakeText{replies: []chatReply{{content: `DECISION: NEEDS REVISION
NOTES:
The caption overpromises delivery times.
FINAL CAPTION:
Run further in the new AirStride, in stores this week.
FINAL CTA:
Shop now
FINAL HASHTAGS:
#running #acme`}}}
	svc, _ := newReviewService(store, text, company)

	updated, err := svc.Review(context.Background(), item.ID, "user-1")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if updated.Status.State != models.StateNeedsRevision {
		t.Errorf("expected Needs Revision, got %q", updated.Status.State)
	}
	if updated.ReviewDecision != models.DecisionNeedsRevision {
		t.Errorf("expected decision %q, got %q", models.DecisionNeedsRevision, updated.ReviewDecision)
	}
	if !strings.Contains(updated.ReviewNotes, "overpromises") {
		t.Errorf("review notes lost: %q", updated.ReviewNotes)
	}
	if updated.FinalHashtags != "#running #acme" {
		t.Errorf("unexpected final hashtags: %q", updated.FinalHashtags)
	}
}

func TestReviewBlankFinalsFallBackToDraft(t *testing.T) {
	company := testCompany("user-1")
	item := reviewableItem(company.ID)
	store := newFakeStore(item)
	text := &fakeText{replies: []chatReply{{content: `{"decision": "APPROVED", "reviewNotes": "Fine as is."}`}}}
	svc, _ := newReviewService(store, text, company)

	updated, err := svc.Review(context.Background(), item.ID, "user-1")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if updated.FinalCaption != item.CaptionOutput {
		t.Errorf("blank final caption should fall back to the draft, got %q", updated.FinalCaption)
	}
	if updated.FinalCTA != item.CtaOutput {
		t.Errorf("blank final CTA should fall back to the draft, got %q", updated.FinalCTA)
	}
	if updated.FinalHashtags != item.HashtagsOutput {
		t.Errorf("blank final hashtags should fall back to the draft, got %q", updated.FinalHashtags)
	}
}

func TestReviewGuards(t *testing.T) {
	company := testCompany("user-1")

	t.Run("missing caption", func(t *testing.T) {
		item := reviewableItem(company.ID)
		item.CaptionOutput = ""
		store := newFakeStore(item)
		svc, _ := newReviewService(store, &fakeText{}, company)

		_, err := svc.Review(context.Background(), item.ID, "user-1")
		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) || conflictErr.Code != CodeMissingCaption {
			t.Fatalf("expected MISSING_CAPTION, got %v", err)
		}
	})

	t.Run("already reviewing", func(t *testing.T) {
		item := reviewableItem(company.ID)
		item.Status = models.ItemStatus{State: models.StateReviewing}
		store := newFakeStore(item)
		svc, _ := newReviewService(store, &fakeText{}, company)

		_, err := svc.Review(context.Background(), item.ID, "user-1")
		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) || conflictErr.Code != CodeAlreadyReviewing {
			t.Fatalf("expected ALREADY_REVIEWING, got %v", err)
		}
	})

	t.Run("draft is not reviewable", func(t *testing.T) {
		item := reviewableItem(company.ID)
		item.Status = models.ItemStatus{State: models.StateDraft}
		store := newFakeStore(item)
		svc, _ := newReviewService(store, &fakeText{}, company)

		_, err := svc.Review(context.Background(), item.ID, "user-1")
		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) || conflictErr.Code != CodeStatusBlocked {
			t.Fatalf("expected STATUS_BLOCKED, got %v", err)
		}
	})
}

func TestReviewUnrecognizedDecisionSetsError(t *testing.T) {
	company := testCompany("user-1")
	item := reviewableItem(company.ID)
	store := newFakeStore(item)
	text := &fakeText{replies: []chatReply{{content: "DECISION: maybe later\nNOTES:\nUnsure."}}}
	svc, _ := newReviewService(store, text, company)

	_, err := svc.Review(context.Background(), item.ID, "user-1")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	stored := store.items[item.ID]
	if stored.Status.State != models.StateError {
		t.Errorf("expected Error state, got %q", stored.Status.State)
	}
	if stored.ReviewNotes == "" {
		t.Error("diagnostics should land in reviewNotes")
	}
}
