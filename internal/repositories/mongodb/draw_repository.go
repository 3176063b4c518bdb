package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for draw records
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create inserts a new draw record
func (r *DrawRepository) Create(ctx context.Context, draw *models.DrawRecord) error {
	draw.ID = utils.NewDocumentID()
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, draw)
	return err
}

// FindByCampaign lists the draws of a campaign, newest first
func (r *DrawRepository) FindByCampaign(ctx context.Context, campaignID string) ([]*models.DrawRecord, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"campaignId": campaignID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.DrawRecord
	if err = cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.DrawRecord{}
	}
	return draws, nil
}

// DeleteByCampaign removes the draw history of a campaign
func (r *DrawRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"campaignId": campaignID})
	return err
}
