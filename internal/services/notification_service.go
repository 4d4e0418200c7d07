package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/database"
	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/models"
)

// NotificationService writes in-app notifications and publishes them on
// Redis for connected frontends. Delivery is best-effort: a failure is
// logged and never propagated into the pipeline that triggered it.
type NotificationService struct {
	collection *mongo.Collection
	redis      *redis.Client
}

// NewNotificationService creates the notifier. redisClient may be nil
// when Redis is not configured; persistence still happens.
func NewNotificationService(db *database.MongoDB, redisClient *redis.Client) *NotificationService {
	return &NotificationService{
		collection: db.Collection(database.CollectionNotifications),
		redis:      redisClient,
	}
}

// Notify stores a notification for one user and publishes it.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message, notifType, link string) {
	if userID == "" {
		return
	}
	n := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.collection.InsertOne(ctx, n); err != nil {
		log.Printf("⚠️ Failed to store notification for user %s: %v", userID, err)
		return
	}

	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, "notify:"+userID, payload).Err(); err != nil {
		log.Printf("⚠️ Failed to publish notification for user %s: %v", userID, err)
	}
}

// NotifyCompany fans a notification out to every member of the company.
func (s *NotificationService) NotifyCompany(ctx context.Context, company *models.Company, title, message, notifType, link string) {
	if company == nil {
		return
	}
	for _, userID := range company.MemberIDs() {
		s.Notify(ctx, userID, title, message, notifType, link)
	}
}
