package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrandContext holds the free-text policy documents the generation
// pipeline reads for a company. The brand-setup workflow owns these; the
// orchestrators only read them. At most one row per company is active.
type BrandContext struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID primitive.ObjectID `bson:"companyId" json:"companyId"`

	BrandPack        string `bson:"brandPack,omitempty" json:"brandPack,omitempty"`
	BrandCapability  string `bson:"brandCapability,omitempty" json:"brandCapability,omitempty"`
	WriterAgent      string `bson:"writerAgent,omitempty" json:"writerAgent,omitempty"`
	ReviewerAgent    string `bson:"reviewerAgent,omitempty" json:"reviewerAgent,omitempty"`
	ImageInstruction string `bson:"imageInstruction,omitempty" json:"imageInstruction,omitempty"`
	EmojiRule        string `bson:"emojiRule,omitempty" json:"emojiRule,omitempty"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
