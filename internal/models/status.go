package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// ItemState represents valid content item pipeline states.
type ItemState string

const (
	StateDraft           ItemState = "Draft"
	StateGenerating      ItemState = "Generating"
	StateReview          ItemState = "Review"
	StateReviewing       ItemState = "Reviewing"
	StateReady           ItemState = "Ready"
	StateNeedsRevision   ItemState = "Needs Revision"
	StateApproved        ItemState = "Approved"
	StateError           ItemState = "Error"
	StateGenerate        ItemState = "Generate" // legacy alias of Draft, still present in old documents
	StateDesignCompleted ItemState = "Design Completed"
	StatePublished       ItemState = "Published"
)

// allStates lists every state the pipeline recognizes.
var allStates = []ItemState{
	StateDraft, StateGenerating, StateReview, StateReviewing, StateReady,
	StateNeedsRevision, StateApproved, StateError, StateGenerate,
	StateDesignCompleted, StatePublished,
}

// generationStartStates are the states caption generation may start from.
var generationStartStates = []ItemState{
	StateDraft, StateError, StateGenerate, StateReview, StateApproved, StateNeedsRevision,
}

// reviewStartStates are the states review may start from.
var reviewStartStates = []ItemState{
	StateReview, StateReady, StateNeedsRevision,
}

// CanStartGeneration reports whether caption generation is allowed from the given state.
func CanStartGeneration(s ItemState) bool {
	return containsState(generationStartStates, s)
}

// CanStartReview reports whether review is allowed from the given state.
func CanStartReview(s ItemState) bool {
	return containsState(reviewStartStates, s)
}

// GenerationStartStates returns a copy of the allowed-from set for caption generation.
func GenerationStartStates() []ItemState {
	out := make([]ItemState, len(generationStartStates))
	copy(out, generationStartStates)
	return out
}

// ReviewStartStates returns a copy of the allowed-from set for review.
func ReviewStartStates() []ItemState {
	out := make([]ItemState, len(reviewStartStates))
	copy(out, reviewStartStates)
	return out
}

// AllStates returns a copy of every recognized state.
func AllStates() []ItemState {
	out := make([]ItemState, len(allStates))
	copy(out, allStates)
	return out
}

func containsState(set []ItemState, s ItemState) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// NormalizeState maps a raw stored state string onto a canonical ItemState.
// The legacy "generate" value means Draft. Unknown values pass through
// unchanged so diagnostics keep the original text.
func NormalizeState(raw string) ItemState {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StateDraft
	}
	lower := strings.ToLower(trimmed)
	if lower == "generate" {
		return StateDraft
	}
	for _, s := range allStates {
		if strings.EqualFold(string(s), trimmed) {
			return s
		}
	}
	return ItemState(trimmed)
}

// ItemStatus is the structured status snapshot stored on a content item.
type ItemStatus struct {
	State     ItemState `bson:"state" json:"state"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	By        string    `bson:"by,omitempty" json:"by,omitempty"`
	Message   string    `bson:"message,omitempty" json:"message,omitempty"`
}

// NewStatus builds a status snapshot stamped with the current time.
func NewStatus(state ItemState, by, message string) ItemStatus {
	return ItemStatus{State: state, UpdatedAt: time.Now().UTC(), By: by, Message: message}
}

// UnmarshalBSONValue tolerates the legacy encodings of status: a bare
// string (including the lowercase "generate" alias of Draft), null, or the
// structured sub-document. Nothing outside this adapter should have to
// care which form a document was written with.
func (s *ItemStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = ItemStatus{State: StateDraft}
		return nil
	case bsontype.String:
		str, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("status: malformed BSON string")
		}
		*s = ItemStatus{State: NormalizeState(str)}
		return nil
	case bsontype.EmbeddedDocument:
		var doc struct {
			State     string    `bson:"state"`
			UpdatedAt time.Time `bson:"updatedAt"`
			By        string    `bson:"by"`
			Message   string    `bson:"message"`
		}
		if err := bson.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("status: %w", err)
		}
		*s = ItemStatus{
			State:     NormalizeState(doc.State),
			UpdatedAt: doc.UpdatedAt,
			By:        doc.By,
			Message:   doc.Message,
		}
		return nil
	}
	return fmt.Errorf("status: unsupported BSON type %s", t)
}

// ParseStatus normalizes an untyped status value (string, map, or struct)
// into an ItemStatus. Use this on anything that did not come through BSON
// decoding, e.g. JSON request payloads.
func ParseStatus(v any) ItemStatus {
	switch value := v.(type) {
	case nil:
		return ItemStatus{State: StateDraft}
	case string:
		return ItemStatus{State: NormalizeState(value)}
	case ItemStatus:
		value.State = NormalizeState(string(value.State))
		return value
	case *ItemStatus:
		if value == nil {
			return ItemStatus{State: StateDraft}
		}
		return ParseStatus(*value)
	case map[string]any:
		status := ItemStatus{State: StateDraft}
		if raw, ok := value["state"].(string); ok {
			status.State = NormalizeState(raw)
		}
		if by, ok := value["by"].(string); ok {
			status.By = by
		}
		if msg, ok := value["message"].(string); ok {
			status.Message = msg
		}
		if at, ok := value["updatedAt"].(time.Time); ok {
			status.UpdatedAt = at
		}
		return status
	}
	return ItemStatus{State: StateDraft}
}
