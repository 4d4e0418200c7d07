package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

// UsageService records provider calls into the usage ledger and bumps a
// monthly per-company counter in Redis for quick dashboard reads. Every
// write is best-effort.
type UsageService struct {
	collection *mongo.Collection
	redis      *redis.Client
}

// NewUsageService creates the usage recorder. redisClient may be nil.
func NewUsageService(db *database.MongoDB, redisClient *redis.Client) *UsageService {
	return &UsageService{
		collection: db.Collection(database.CollectionUsageEvents),
		redis:      redisClient,
	}
}

// Record appends one usage event. Errors are logged, never returned.
func (s *UsageService) Record(ctx context.Context, event models.UsageEvent) {
	event.CreatedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		log.Printf("⚠️ Failed to record usage event (%s/%s): %v", event.Provider, event.CallType, err)
	}

	if s.redis == nil {
		return
	}
	key := fmt.Sprintf("usage:%s:%s:%s", event.CompanyID.Hex(), event.CallType, time.Now().UTC().Format("2006-01"))
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		log.Printf("⚠️ Failed to bump usage counter %s: %v", key, err)
	}
}
