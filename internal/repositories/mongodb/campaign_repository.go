package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CampaignRepository implements the interface
var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository handles MongoDB operations for campaigns
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create inserts a new campaign with a generated id
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = utils.NewDocumentID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := r.collection.InsertOne(ctx, campaign)
	return err
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign); err != nil {
		return nil, notFound(err)
	}
	return &campaign, nil
}

// FindFirstByIDPrefix finds the campaign with the lowest id that starts with prefix
func (r *CampaignRepository) FindFirstByIDPrefix(ctx context.Context, prefix string) (*models.Campaign, error) {
	var campaign models.Campaign
	opts := options.FindOne().SetSort(bson.M{"_id": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": idPrefixFilter(prefix)}, opts).Decode(&campaign); err != nil {
		return nil, notFound(err)
	}
	return &campaign, nil
}

// FindByManager lists the campaigns of a manager, newest first
func (r *CampaignRepository) FindByManager(ctx context.Context, managerID string) ([]*models.Campaign, error) {
	return r.find(ctx, bson.M{"managerId": managerID})
}

// FindAll lists every campaign, newest first
func (r *CampaignRepository) FindAll(ctx context.Context) ([]*models.Campaign, error) {
	return r.find(ctx, bson.M{})
}

func (r *CampaignRepository) find(ctx context.Context, filter bson.M) ([]*models.Campaign, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, nil
}

// Update replaces the editable fields of a campaign. Counters are left alone
// so concurrent increments are not lost.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":              campaign.Title,
		"description":        campaign.Description,
		"endDate":            campaign.EndDate,
		"isActive":           campaign.IsActive,
		"whatsappShareText":  campaign.WhatsAppShareText,
		"contactVcardName":   campaign.ContactVCardName,
		"contactPhoneNumber": campaign.ContactPhoneNumber,
		"bannerUrl":          campaign.BannerURL,
		"theme":              campaign.Theme,
		"updatedAt":          campaign.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": campaign.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a campaign by ID
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// IncrementCounter atomically adds delta to a campaign counter
func (r *CampaignRepository) IncrementCounter(ctx context.Context, id string, counter models.CampaignCounter, delta int) error {
	switch counter {
	case models.CounterViews, models.CounterParticipants:
	default:
		return fmt.Errorf("unknown campaign counter %q", counter)
	}
	update := bson.M{"$inc": bson.M{string(counter): delta}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
