package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
)

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository keeps draw records under their campaign
type DrawRepository struct {
	client *firestore.Client
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(client *firestore.Client) *DrawRepository {
	return &DrawRepository{client: client}
}

func (r *DrawRepository) collection(campaignID string) *firestore.CollectionRef {
	return r.client.Collection(campaignsCollection).Doc(campaignID).Collection(drawsCollection)
}

func (r *DrawRepository) Create(ctx context.Context, draw *models.DrawRecord) error {
	ref := r.collection(draw.CampaignID).NewDoc()
	draw.ID = ref.ID
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	_, err := ref.Create(ctx, draw)
	return err
}

func (r *DrawRepository) FindByCampaign(ctx context.Context, campaignID string) ([]*models.DrawRecord, error) {
	it := r.collection(campaignID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return readAll(it, func(d *models.DrawRecord, id string) { d.ID = id })
}

func (r *DrawRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	return deleteAll(ctx, r.collection(campaignID).Documents(ctx))
}
