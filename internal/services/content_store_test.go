package services

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

func TestStateFilterBranches(t *testing.T) {
	branches := stateFilterBranches(models.GenerationStartStates())
	if len(branches) != 4 {
		t.Fatalf("Draft in the from-set should add the missing-status branches, got %d", len(branches))
	}

	variants := branches[0]["status.state"].(bson.M)["$in"].([]string)
	want := map[string]bool{"Draft": false, "draft": false, "Generate": false, "generate": false, "Error": false, "Needs Revision": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for variant, found := range want {
		if !found {
			t.Errorf("variant %q missing from the state filter", variant)
		}
	}

	// Both encodings are matched with the same variant list.
	legacy := branches[1]["status"].(bson.M)["$in"].([]string)
	if len(legacy) != len(variants) {
		t.Errorf("legacy branch should reuse the variants, got %d vs %d", len(legacy), len(variants))
	}
}

func TestStateFilterBranchesWithoutDraft(t *testing.T) {
	branches := stateFilterBranches(models.ReviewStartStates())
	if len(branches) != 2 {
		t.Fatalf("review from-set should not match missing statuses, got %d branches", len(branches))
	}
	variants := branches[0]["status.state"].(bson.M)["$in"].([]string)
	for _, v := range variants {
		if strings.EqualFold(v, "Draft") {
			t.Errorf("Draft must not appear in the review filter: %v", variants)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("short strings pass through, got %q", got)
	}
	long := strings.Repeat("é", maxDiagnosticLen+100)
	got := truncateRunes(long, maxDiagnosticLen)
	if len([]rune(got)) != maxDiagnosticLen {
		t.Errorf("expected %d runes, got %d", maxDiagnosticLen, len([]rune(got)))
	}
}
