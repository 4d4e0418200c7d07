package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review decision display values persisted on the item.
const (
	DecisionApproved      = "Approved"
	DecisionNeedsRevision = "Needs Revision"
)

// ContentItem is one planned piece of content flowing through the
// generation pipeline. Planning fields are written by the planner and
// treated as immutable inputs here; the three orchestrators own the rest.
type ContentItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID primitive.ObjectID `bson:"companyId" json:"companyId"`

	// Planning fields
	Theme          string   `bson:"theme,omitempty" json:"theme,omitempty"`
	ContentType    string   `bson:"contentType,omitempty" json:"contentType,omitempty"`
	TargetAudience string   `bson:"targetAudience,omitempty" json:"targetAudience,omitempty"`
	PrimaryGoal    string   `bson:"primaryGoal,omitempty" json:"primaryGoal,omitempty"`
	CTA            string   `bson:"cta,omitempty" json:"cta,omitempty"`
	PromoFraming   string   `bson:"promoFraming,omitempty" json:"promoFraming,omitempty"`
	Channels       []string `bson:"channels,omitempty" json:"channels,omitempty"`
	CrossPromotion string   `bson:"crossPromotion,omitempty" json:"crossPromotion,omitempty"`
	BrandHighlight string   `bson:"brandHighlight,omitempty" json:"brandHighlight,omitempty"`

	// Generation outputs. The ctaOuput/hastagsOutput spellings are the
	// stored field names existing documents and the frontend rely on.
	FrameworkUsed  string   `bson:"frameworkUsed,omitempty" json:"frameworkUsed,omitempty"`
	CaptionOutput  string   `bson:"captionOutput,omitempty" json:"captionOutput,omitempty"`
	CtaOutput      string   `bson:"ctaOuput,omitempty" json:"ctaOuput,omitempty"`
	Hashtags       []string `bson:"hashtags,omitempty" json:"hashtags,omitempty"`
	HashtagsOutput string   `bson:"hastagsOutput,omitempty" json:"hastagsOutput,omitempty"`

	// Review outputs
	ReviewDecision string `bson:"reviewDecision,omitempty" json:"reviewDecision,omitempty"`
	ReviewNotes    string `bson:"reviewNotes,omitempty" json:"reviewNotes,omitempty"`
	FinalCaption   string `bson:"finalCaption,omitempty" json:"finalCaption,omitempty"`
	FinalCTA       string `bson:"finalCTA,omitempty" json:"finalCTA,omitempty"`
	FinalHashtags  string `bson:"finalHashtags,omitempty" json:"finalHashtags,omitempty"`

	// Image pipeline outputs
	Dmp            string `bson:"dmp,omitempty" json:"dmp,omitempty"`
	ImageGenerated string `bson:"imageGenerated,omitempty" json:"imageGenerated,omitempty"`

	Status    ItemStatus `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// DraftCaption returns the caption to feed downstream stages, preferring
// the reviewed final copy over the raw generation output.
func (c *ContentItem) DraftCaption() string {
	if c.FinalCaption != "" {
		return c.FinalCaption
	}
	return c.CaptionOutput
}

// DraftCTA returns the finalized CTA when present, else the generated one.
func (c *ContentItem) DraftCTA() string {
	if c.FinalCTA != "" {
		return c.FinalCTA
	}
	return c.CtaOutput
}
