package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

// CompanyService resolves companies and enforces membership and
// permission checks for the generation endpoints.
type CompanyService struct {
	collection *mongo.Collection
}

// NewCompanyService creates the company access checker
func NewCompanyService(db *database.MongoDB) *CompanyService {
	return &CompanyService{collection: db.Collection(database.CollectionCompanies)}
}

// GetByID fetches a company
func (s *CompanyService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return &company, nil
}

// Authorize verifies the user is a member of the company holding the
// given permission and returns the company for downstream use.
func (s *CompanyService) Authorize(ctx context.Context, companyID primitive.ObjectID, userID, perm string) (*models.Company, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.HasAccess(userID) {
		return nil, ErrForbidden
	}
	if perm != "" && !company.HasPermission(userID, perm) {
		return nil, ErrForbidden
	}
	return company, nil
}
