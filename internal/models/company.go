package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collaborator permissions
const (
	PermGenerateContent = "generate_content"
)

// Collaborator roles
const (
	CollaboratorRoleEditor = "editor"
	CollaboratorRoleViewer = "viewer"
)

// Company represents a brand workspace owned by one user with optional
// collaborators.
type Company struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	OwnerID string             `bson:"ownerId" json:"ownerId"`

	Collaborators []Collaborator `bson:"collaborators,omitempty" json:"collaborators,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Collaborator is a non-owner member of a company.
type Collaborator struct {
	UserID      string    `bson:"userId" json:"userId"`
	Role        string    `bson:"role" json:"role"`
	Permissions []string  `bson:"permissions,omitempty" json:"permissions,omitempty"`
	AddedAt     time.Time `bson:"addedAt" json:"addedAt"`
	AddedBy     string    `bson:"addedBy,omitempty" json:"addedBy,omitempty"`
}

// IsOwner checks if a user owns the company.
func (c *Company) IsOwner(userID string) bool {
	return c.OwnerID == userID
}

// HasAccess reports whether the user is the owner or a collaborator.
func (c *Company) HasAccess(userID string) bool {
	if c.IsOwner(userID) {
		return true
	}
	for _, collab := range c.Collaborators {
		if collab.UserID == userID {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user may perform the named action.
// The owner holds every permission; collaborators with an empty
// permission list are unrestricted.
func (c *Company) HasPermission(userID, perm string) bool {
	if c.IsOwner(userID) {
		return true
	}
	for _, collab := range c.Collaborators {
		if collab.UserID != userID {
			continue
		}
		if len(collab.Permissions) == 0 {
			return true
		}
		for _, p := range collab.Permissions {
			if p == perm {
				return true
			}
		}
		return false
	}
	return false
}

// MemberIDs returns the owner plus every collaborator user id.
func (c *Company) MemberIDs() []string {
	ids := make([]string, 0, len(c.Collaborators)+1)
	ids = append(ids, c.OwnerID)
	for _, collab := range c.Collaborators {
		if collab.UserID != c.OwnerID {
			ids = append(ids, collab.UserID)
		}
	}
	return ids
}
