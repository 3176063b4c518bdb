package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"google.golang.org/api/iterator"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository handles Firestore operations for campaigns
type CampaignRepository struct {
	client *firestore.Client
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(client *firestore.Client) *CampaignRepository {
	return &CampaignRepository{client: client}
}

func (r *CampaignRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(campaignsCollection)
}

func setCampaignID(c *models.Campaign, id string) { c.ID = id }

// Create stores a campaign under a Firestore generated id
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	ref := r.collection().NewDoc()
	campaign.ID = ref.ID
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := ref.Create(ctx, campaign)
	return err
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*models.Campaign, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var campaign models.Campaign
	if err := snap.DataTo(&campaign); err != nil {
		return nil, err
	}
	campaign.ID = snap.Ref.ID
	return &campaign, nil
}

// FindFirstByIDPrefix walks campaign ids in ascending order and returns the first one starting with prefix
func (r *CampaignRepository) FindFirstByIDPrefix(ctx context.Context, prefix string) (*models.Campaign, error) {
	it := r.collection().OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil, repositories.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		id := snap.Ref.ID
		if strings.HasPrefix(id, prefix) {
			var campaign models.Campaign
			if err := snap.DataTo(&campaign); err != nil {
				return nil, err
			}
			campaign.ID = id
			return &campaign, nil
		}
		if id > prefix {
			return nil, repositories.ErrNotFound
		}
	}
}

// FindByManager lists the campaigns of a manager, newest first
func (r *CampaignRepository) FindByManager(ctx context.Context, managerID string) ([]*models.Campaign, error) {
	it := r.collection().Where("managerId", "==", managerID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return readAll(it, setCampaignID)
}

// FindAll lists every campaign, newest first
func (r *CampaignRepository) FindAll(ctx context.Context) ([]*models.Campaign, error) {
	it := r.collection().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return readAll(it, setCampaignID)
}

// Update writes the editable fields of a campaign
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	_, err := r.collection().Doc(campaign.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: campaign.Title},
		{Path: "description", Value: campaign.Description},
		{Path: "endDate", Value: campaign.EndDate},
		{Path: "isActive", Value: campaign.IsActive},
		{Path: "whatsappShareText", Value: campaign.WhatsAppShareText},
		{Path: "contactVcardName", Value: campaign.ContactVCardName},
		{Path: "contactPhoneNumber", Value: campaign.ContactPhoneNumber},
		{Path: "bannerUrl", Value: campaign.BannerURL},
		{Path: "theme", Value: campaign.Theme},
		{Path: "updatedAt", Value: campaign.UpdatedAt},
	})
	return notFound(err)
}

// Delete removes the campaign document. Sub-collections are removed by their own repositories.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx, firestore.Exists)
	return notFound(err)
}

// IncrementCounter atomically adds delta to a campaign counter
func (r *CampaignRepository) IncrementCounter(ctx context.Context, id string, counter models.CampaignCounter, delta int) error {
	switch counter {
	case models.CounterViews, models.CounterParticipants:
	default:
		return fmt.Errorf("unknown campaign counter %q", counter)
	}
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: string(counter), Value: firestore.Increment(delta)},
	})
	return notFound(err)
}
