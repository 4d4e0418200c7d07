package models

import (
	"testing"
	"time"
)

func TestGenerationGuardMatrix(t *testing.T) {
	allowed := map[ItemState]bool{
		StateDraft:         true,
		StateError:         true,
		StateGenerate:      true,
		StateReview:        true,
		StateApproved:      true,
		StateNeedsRevision: true,
	}

	for _, state := range AllStates() {
		got := CanStartGeneration(state)
		if got != allowed[state] {
			t.Errorf("CanStartGeneration(%q) = %v, want %v", state, got, allowed[state])
		}
	}
}

func TestReviewGuardMatrix(t *testing.T) {
	allowed := map[ItemState]bool{
		StateReview:        true,
		StateReady:         true,
		StateNeedsRevision: true,
	}

	for _, state := range AllStates() {
		got := CanStartReview(state)
		if got != allowed[state] {
			t.Errorf("CanStartReview(%q) = %v, want %v", state, got, allowed[state])
		}
	}
}

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in   string
		want ItemState
	}{
		{"Draft", StateDraft},
		{"draft", StateDraft},
		{"generate", StateDraft},
		{"Generate", StateDraft},
		{"GENERATE", StateDraft},
		{"", StateDraft},
		{"  Review  ", StateReview},
		{"needs revision", StateNeedsRevision},
		{"design completed", StateDesignCompleted},
		{"Generating", StateGenerating},
		{"SomethingElse", ItemState("SomethingElse")},
	}

	for _, tt := range tests {
		if got := NormalizeState(tt.in); got != tt.want {
			t.Errorf("NormalizeState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if got := ParseStatus(nil); got.State != StateDraft {
		t.Errorf("nil status should normalize to Draft, got %q", got.State)
	}

	if got := ParseStatus("generate"); got.State != StateDraft {
		t.Errorf("legacy generate string should normalize to Draft, got %q", got.State)
	}

	if got := ParseStatus("Reviewing"); got.State != StateReviewing {
		t.Errorf("bare string should parse, got %q", got.State)
	}

	now := time.Now()
	got := ParseStatus(map[string]any{
		"state":     "error",
		"by":        "system",
		"message":   "provider failure",
		"updatedAt": now,
	})
	if got.State != StateError || got.By != "system" || got.Message != "provider failure" || !got.UpdatedAt.Equal(now) {
		t.Errorf("object status parsed incorrectly: %+v", got)
	}
}

func TestCompanyPermissions(t *testing.T) {
	company := &Company{
		OwnerID: "owner-1",
		Collaborators: []Collaborator{
			{UserID: "collab-1", Role: CollaboratorRoleEditor, Permissions: []string{PermGenerateContent}},
			{UserID: "collab-2", Role: CollaboratorRoleViewer, Permissions: []string{"view_only"}},
			{UserID: "collab-3", Role: CollaboratorRoleEditor},
		},
	}

	if !company.HasPermission("owner-1", PermGenerateContent) {
		t.Error("owner should hold every permission")
	}
	if !company.HasPermission("collab-1", PermGenerateContent) {
		t.Error("collaborator with the permission should be allowed")
	}
	if company.HasPermission("collab-2", PermGenerateContent) {
		t.Error("collaborator without the permission should be denied")
	}
	if !company.HasPermission("collab-3", PermGenerateContent) {
		t.Error("collaborator with no permission list should be unrestricted")
	}
	if company.HasAccess("stranger") {
		t.Error("non-member should have no access")
	}

	ids := company.MemberIDs()
	if len(ids) != 4 || ids[0] != "owner-1" {
		t.Errorf("MemberIDs() = %v", ids)
	}
}
