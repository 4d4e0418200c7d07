package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

// BrandStore reads the active brand context per company. Reads are cached
// briefly because every generation call needs the same documents.
type BrandStore struct {
	collection *mongo.Collection
	cache      *gocache.Cache
}

// NewBrandStore creates a brand context store with a short read cache
func NewBrandStore(db *database.MongoDB) *BrandStore {
	return &BrandStore{
		collection: db.Collection(database.CollectionBrandContexts),
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// GetActive returns the newest active brand context for a company, or
// ErrNotFound when the company has none configured.
func (s *BrandStore) GetActive(ctx context.Context, companyID primitive.ObjectID) (*models.BrandContext, error) {
	cacheKey := companyID.Hex()
	if cached, found := s.cache.Get(cacheKey); found {
		if bc, ok := cached.(*models.BrandContext); ok {
			return bc, nil
		}
	}

	var bc models.BrandContext
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err := s.collection.FindOne(ctx, bson.M{"companyId": companyID, "isActive": true}, opts).Decode(&bc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brand context: %w", err)
	}

	s.cache.Set(cacheKey, &bc, gocache.DefaultExpiration)
	return &bc, nil
}

// Invalidate drops the cached context for a company
func (s *BrandStore) Invalidate(companyID primitive.ObjectID) {
	s.cache.Delete(companyID.Hex())
}
