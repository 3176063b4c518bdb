package services

import (
	"context"
	"io"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
)

// Actor is the authenticated manager a request runs on behalf of
type Actor struct {
	ManagerID string
	Role      string
}

// IsSuperAdmin reports whether the actor bypasses ownership checks.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

// DuplicateGuard detects a phone number that already registered in a campaign
type DuplicateGuard interface {
	// FindExisting returns the participant registered with normalizedPhone, or nil.
	FindExisting(ctx context.Context, campaignID, normalizedPhone string) (*models.Participant, error)
}

// ReferralResolver turns a (possibly truncated) referral token into a participant id
type ReferralResolver interface {
	// Resolve returns the referrer id, or "" when the token does not resolve or resolves to excludeID.
	Resolve(ctx context.Context, campaignID, referralToken, excludeID string) (string, error)
}

// TicketLedger owns participant creation and ticket counts
type TicketLedger interface {
	CreateParticipant(ctx context.Context, campaignID string, p models.NewParticipant) (*models.Participant, error)
	CreditReferralTicket(ctx context.Context, campaignID, referrerID string) error
	MarkTaskCompleted(ctx context.Context, campaignID, participantID string, task models.Task) error
}

// RegistrationService is the participant facing entry point
type RegistrationService interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error)
	CompleteTask(ctx context.Context, campaignID, participantID string, task models.Task) (*models.ParticipantStatus, error)
	Status(ctx context.Context, campaignID, participantID string) (*models.ParticipantStatus, error)
}

// DrawService runs and records draws
type DrawService interface {
	DrawWinners(ctx context.Context, req models.DrawRequest) (*models.DrawRecord, error)
	History(ctx context.Context, actor Actor, campaignID string) ([]*models.DrawRecord, error)
}

// CampaignService covers campaign management and the public campaign views
type CampaignService interface {
	Create(ctx context.Context, actor Actor, req *models.CampaignRequest) (*models.Campaign, error)
	Get(ctx context.Context, actor Actor, id string) (*models.Campaign, error)
	List(ctx context.Context, actor Actor) ([]*models.Campaign, error)
	Update(ctx context.Context, actor Actor, id string, req *models.CampaignRequest) (*models.Campaign, error)
	SetActive(ctx context.Context, actor Actor, id string, active bool) (*models.Campaign, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Stats(ctx context.Context, actor Actor, id string) (*models.CampaignStats, error)
	Participants(ctx context.Context, actor Actor, id string) ([]*models.Participant, error)
	ExportCSV(ctx context.Context, actor Actor, id string, w io.Writer) error
	ExportVCF(ctx context.Context, actor Actor, id string, w io.Writer) error
	ShareLink(campaign *models.Campaign) string

	// Resolve accepts a full campaign id or a short prefix of one.
	Resolve(ctx context.Context, token string) (*models.Campaign, error)
	PublicView(ctx context.Context, token string) (*models.PublicCampaign, error)
	Leaderboard(ctx context.Context, token string) ([]models.LeaderboardEntry, error)
	ContactCard(ctx context.Context, token string) (string, error)
	ShortLinkTarget(ctx context.Context, campaignToken, referralToken string) (string, error)
}

// AuthService handles manager sign-up and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, managerID string) (*models.Manager, error)
}

// AdminService is the super admin's view of manager accounts
type AdminService interface {
	ListManagers(ctx context.Context, actor Actor) ([]*models.ManagerSummary, error)
	ManagerCampaigns(ctx context.Context, actor Actor, managerID string) ([]*models.Campaign, error)
}

// NotificationService sends and logs outbound WhatsApp and email messages
type NotificationService interface {
	SendWhatsApp(ctx context.Context, campaignID, kind, phone, text string) error
	NotifyManagerSignup(ctx context.Context, manager *models.Manager) error
	NotifyCampaignCreated(ctx context.Context, campaign *models.Campaign) error
	HandleWebhook(ctx context.Context, hook *models.GreenWebhook) (bool, error)
	History(ctx context.Context, actor Actor, campaignID string, limit int) ([]*models.Notification, error)
}
