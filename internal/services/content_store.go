package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

// maxDiagnosticLen caps the error diagnostics persisted into reviewNotes.
const maxDiagnosticLen = 4000

// ContentStore persists content items and owns the guarded status
// transitions the orchestrators rely on for concurrency control.
type ContentStore struct {
	collection *mongo.Collection
}

// NewContentStore creates a content item store
func NewContentStore(db *database.MongoDB) *ContentStore {
	return &ContentStore{collection: db.Collection(database.CollectionContentItems)}
}

// GetByID fetches a single content item
func (s *ContentStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	var item models.ContentItem
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content item: %w", err)
	}
	return &item, nil
}

// TryTransition atomically moves an item into the given status if and only
// if its current state is one of the allowed from-states. It returns false
// without error when another caller won the race or the state moved on.
// The filter tolerates legacy documents where status is a bare string.
func (s *ContentStore) TryTransition(ctx context.Context, id primitive.ObjectID, from []models.ItemState, to models.ItemStatus) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": stateFilterBranches(from),
	}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}}

	res, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update content item status: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// stateFilterBranches builds the $or branches matching any of the given
// states against both the structured status sub-document and the legacy
// bare-string encoding, case-insensitively via explicit variants.
func stateFilterBranches(states []models.ItemState) []bson.M {
	variants := make([]string, 0, len(states)*2)
	seen := make(map[string]bool)
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	draftAllowed := false
	for _, st := range states {
		add(string(st))
		add(strings.ToLower(string(st)))
		if st == models.StateDraft {
			draftAllowed = true
		}
	}

	branches := []bson.M{
		{"status.state": bson.M{"$in": variants}},
		{"status": bson.M{"$in": variants}},
	}
	if draftAllowed {
		// Items that never carried a status are treated as Draft.
		branches = append(branches,
			bson.M{"status": nil},
			bson.M{"status": bson.M{"$exists": false}},
		)
	}
	return branches
}

// SetStatus writes a status snapshot unconditionally.
func (s *ContentStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ItemStatus) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set content item status: %w", err)
	}
	return nil
}

// SetError moves the item to Error and persists the diagnostic into
// reviewNotes, truncated so a pathological provider response cannot bloat
// the document.
func (s *ContentStore) SetError(ctx context.Context, id primitive.ObjectID, by, diagnostic string) error {
	diagnostic = truncateRunes(diagnostic, maxDiagnosticLen)
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      models.NewStatus(models.StateError, by, diagnostic),
		"reviewNotes": diagnostic,
		"updatedAt":   time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to record content item error: %w", err)
	}
	return nil
}

// SaveGenerationOutputs persists parsed caption fields and moves the item
// to Review. Notes from a previous review round are cleared so the fresh
// copy is not shadowed by stale feedback.
func (s *ContentStore) SaveGenerationOutputs(ctx context.Context, id primitive.ObjectID, by, framework, caption, cta string, hashtags []string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"frameworkUsed": framework,
		"captionOutput": caption,
		"ctaOuput":      cta,
		"hashtags":      hashtags,
		"hastagsOutput": strings.Join(hashtags, " "),
		"reviewNotes":   "",
		"status":        models.NewStatus(models.StateReview, by, "Caption generated"),
		"updatedAt":     time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to save generation outputs: %w", err)
	}
	return nil
}

// SaveReviewOutputs persists the reviewer verdict and finalized copy, and
// moves the item to the given terminal review state.
func (s *ContentStore) SaveReviewOutputs(ctx context.Context, id primitive.ObjectID, by string, state models.ItemState, decision, notes, finalCaption, finalCTA, finalHashtags string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reviewDecision": decision,
		"reviewNotes":    notes,
		"finalCaption":   finalCaption,
		"finalCTA":       finalCTA,
		"finalHashtags":  finalHashtags,
		"status":         models.NewStatus(state, by, "Review completed"),
		"updatedAt":      time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to save review outputs: %w", err)
	}
	return nil
}

// SaveDmp persists the raw design megaprompt text without altering state.
func (s *ContentStore) SaveDmp(ctx context.Context, id primitive.ObjectID, dmp string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"dmp":       dmp,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to save design megaprompt: %w", err)
	}
	return nil
}

// SaveImage records the stored asset path and completes the design stage.
func (s *ContentStore) SaveImage(ctx context.Context, id primitive.ObjectID, by, assetPath string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"imageGenerated": assetPath,
		"status":         models.NewStatus(models.StateDesignCompleted, by, "Image generated"),
		"updatedAt":      time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to save generated image: %w", err)
	}
	return nil
}

// FindStuck lists items sitting in a transient state longer than the
// threshold. Used by the stuck-run reporter only; nothing mutates them.
func (s *ContentStore) FindStuck(ctx context.Context, threshold time.Duration) ([]models.ContentItem, error) {
	cutoff := time.Now().UTC().Add(-threshold)
	cursor, err := s.collection.Find(ctx, bson.M{
		"status.state":     bson.M{"$in": []string{string(models.StateGenerating), string(models.StateReviewing)}},
		"status.updatedAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.ContentItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode stuck items: %w", err)
	}
	return items, nil
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
