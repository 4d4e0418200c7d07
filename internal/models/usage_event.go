package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Usage event call types.
const (
	UsageCallCaption = "caption"
	UsageCallReview  = "review"
	UsageCallDmp     = "dmp"
	UsageCallImage   = "image"
)

// UsageEvent is one provider call recorded in the usage ledger for cost
// accounting. Writes are best-effort; a failed write never fails the
// triggering operation.
type UsageEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    primitive.ObjectID `bson:"companyId" json:"companyId"`
	UserID       string             `bson:"userId" json:"userId"`
	Provider     string             `bson:"provider" json:"provider"`
	Model        string             `bson:"model,omitempty" json:"model,omitempty"`
	CallType     string             `bson:"callType" json:"callType"`
	InputTokens  int                `bson:"inputTokens,omitempty" json:"inputTokens,omitempty"`
	OutputTokens int                `bson:"outputTokens,omitempty" json:"outputTokens,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
