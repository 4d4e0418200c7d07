package jobs

import (
	"context"
	"log"
	"time"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/services"
)

// StuckItemReporter logs content items that have sat in Generating or
// Reviewing longer than the threshold, usually after a crash mid-run.
// It is report-only: recovery stays a human decision, because clearing
// the state automatically could race a slow but live provider call.
type StuckItemReporter struct {
	store     *services.ContentStore
	threshold time.Duration
}

// NewStuckItemReporter creates the reporter
func NewStuckItemReporter(store *services.ContentStore, threshold time.Duration) *StuckItemReporter {
	return &StuckItemReporter{store: store, threshold: threshold}
}

// Run logs every stuck item it finds
func (j *StuckItemReporter) Run(ctx context.Context) error {
	items, err := j.store.FindStuck(ctx, j.threshold)
	if err != nil {
		log.Printf("❌ [STUCK-ITEMS] Query failed: %v", err)
		return err
	}

	if len(items) == 0 {
		return nil
	}

	log.Printf("⚠️ [STUCK-ITEMS] %d item(s) in a transient state for more than %v", len(items), j.threshold)
	for _, item := range items {
		age := time.Since(item.Status.UpdatedAt).Round(time.Second)
		log.Printf("⚠️ [STUCK-ITEMS] Item %s (company %s) stuck in %q for %v, started by %q",
			item.ID.Hex(), item.CompanyID.Hex(), item.Status.State, age, item.Status.By)
		if item.Status.State != models.StateGenerating && item.Status.State != models.StateReviewing {
			log.Printf("⚠️ [STUCK-ITEMS] Unexpected state %q in stuck query result for item %s", item.Status.State, item.ID.Hex())
		}
	}
	return nil
}
