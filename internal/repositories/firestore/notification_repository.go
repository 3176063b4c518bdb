package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
)

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository keeps the outbound message log in Firestore
type NotificationRepository struct {
	client *firestore.Client
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(client *firestore.Client) *NotificationRepository {
	return &NotificationRepository{client: client}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	ref := r.client.Collection(notificationsCollection).NewDoc()
	notification.ID = ref.ID
	notification.CreatedAt = time.Now()
	_, err := ref.Create(ctx, notification)
	return err
}

// FindByCampaign needs a composite index on (campaignId, createdAt desc).
func (r *NotificationRepository) FindByCampaign(ctx context.Context, campaignID string, limit int) ([]*models.Notification, error) {
	it := r.client.Collection(notificationsCollection).
		Where("campaignId", "==", campaignID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	return readAll(it, func(n *models.Notification, id string) { n.ID = id })
}
