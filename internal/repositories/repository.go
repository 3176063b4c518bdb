package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
)

var (
	// ErrNotFound is returned by every store driver when a document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("duplicate document")
)

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id string) (*models.Campaign, error)
	// FindFirstByIDPrefix returns the campaign with the lowest id starting with prefix.
	FindFirstByIDPrefix(ctx context.Context, prefix string) (*models.Campaign, error)
	FindByManager(ctx context.Context, managerID string) ([]*models.Campaign, error)
	FindAll(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id string) error
	IncrementCounter(ctx context.Context, id string, counter models.CampaignCounter, delta int) error
}

// ParticipantRepository defines the interface for participant data operations.
// Participants are always scoped to a campaign.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, campaignID, id string) (*models.Participant, error)
	// FindFirstByIDPrefix returns the participant with the lowest id starting with prefix.
	FindFirstByIDPrefix(ctx context.Context, campaignID, prefix string) (*models.Participant, error)
	FindByPhone(ctx context.Context, campaignID, phone string) ([]*models.Participant, error)
	FindByCampaign(ctx context.Context, campaignID string) ([]*models.Participant, error)
	FindTopByTickets(ctx context.Context, campaignID string, limit int) ([]*models.Participant, error)
	IncrementTickets(ctx context.Context, campaignID, id string, delta int) error
	SetTaskCompleted(ctx context.Context, campaignID, id string, task models.Task) error
	DeleteByCampaign(ctx context.Context, campaignID string) error
}

// DrawRepository stores draw outcomes
type DrawRepository interface {
	Create(ctx context.Context, draw *models.DrawRecord) error
	FindByCampaign(ctx context.Context, campaignID string) ([]*models.DrawRecord, error)
	DeleteByCampaign(ctx context.Context, campaignID string) error
}

// ManagerRepository defines the interface for manager accounts
type ManagerRepository interface {
	Create(ctx context.Context, manager *models.Manager) error
	FindByID(ctx context.Context, id string) (*models.Manager, error)
	FindByEmail(ctx context.Context, email string) (*models.Manager, error)
	// FindAll lists every manager, newest first.
	FindAll(ctx context.Context) ([]*models.Manager, error)
}

// NotificationRepository keeps a log of outbound messages
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByCampaign(ctx context.Context, campaignID string, limit int) ([]*models.Notification, error)
}

// Store bundles the repositories of one storage driver
type Store struct {
	Campaigns     CampaignRepository
	Participants  ParticipantRepository
	Draws         DrawRepository
	Managers      ManagerRepository
	Notifications NotificationRepository
}
