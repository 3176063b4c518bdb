package services

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/cache"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
)

var _ CampaignService = (*CampaignServiceImpl)(nil)

const campaignCacheKind = "campaign"

// Default page colours of a new campaign
var defaultTheme = models.Theme{PrimaryColor: "#6366f1", BackgroundColor: "#f8fafc"}

// CampaignServiceImpl handles campaign business logic
type CampaignServiceImpl struct {
	campaigns    repositories.CampaignRepository
	participants repositories.ParticipantRepository
	draws        repositories.DrawRepository
	shortIDs     cache.ShortIDCache
	notifier     campaignNotifier
	cfg          *config.Config
	now          func() time.Time
}

// campaignNotifier is the part of NotificationService campaign creation uses
type campaignNotifier interface {
	NotifyCampaignCreated(ctx context.Context, campaign *models.Campaign) error
}

// SetNotifier enables the super admin email on campaign creation
func (s *CampaignServiceImpl) SetNotifier(n campaignNotifier) {
	s.notifier = n
}

// NewCampaignService creates a new CampaignServiceImpl. A nil cache disables short id caching.
func NewCampaignService(store *repositories.Store, shortIDs cache.ShortIDCache, cfg *config.Config) *CampaignServiceImpl {
	if shortIDs == nil {
		shortIDs = cache.Noop{}
	}
	return &CampaignServiceImpl{
		campaigns:    store.Campaigns,
		participants: store.Participants,
		draws:        store.Draws,
		shortIDs:     shortIDs,
		cfg:          cfg,
		now:          time.Now,
	}
}

// ownedCampaign loads a campaign the actor may manage
func ownedCampaign(ctx context.Context, campaigns repositories.CampaignRepository, actor Actor, id string) (*models.Campaign, error) {
	if id == "" {
		return nil, invalid("campaignId", "is required")
	}
	campaign, err := campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("load campaign", err)
	}
	if !actor.IsSuperAdmin() && campaign.ManagerID != actor.ManagerID {
		logx.L().Warnw("Campaign access denied", "campaignId", id, "managerId", actor.ManagerID)
		return nil, ErrForbidden
	}
	return campaign, nil
}

func validateCampaignRequest(req *models.CampaignRequest) error {
	if req == nil {
		return invalid("body", "is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return invalid("title", "is required")
	}
	if req.EndDate.IsZero() {
		return invalid("endDate", "is required")
	}
	if req.ContactPhoneNumber != "" && !utils.IsValidPhone(utils.NormalizePhone(req.ContactPhoneNumber)) {
		return invalid("contactPhoneNumber", "must contain 9 to 15 digits")
	}
	return nil
}

func applyCampaignRequest(c *models.Campaign, req *models.CampaignRequest) {
	c.Title = strings.TrimSpace(req.Title)
	c.Description = req.Description
	c.EndDate = req.EndDate
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.WhatsAppShareText = req.WhatsAppShareText
	c.ContactVCardName = req.ContactVCardName
	c.ContactPhoneNumber = utils.NormalizePhone(req.ContactPhoneNumber)
	c.BannerURL = req.BannerURL
	if req.Theme != nil {
		c.Theme = *req.Theme
	}
}

// Create creates an active campaign owned by the actor
func (s *CampaignServiceImpl) Create(ctx context.Context, actor Actor, req *models.CampaignRequest) (*models.Campaign, error) {
	if err := validateCampaignRequest(req); err != nil {
		return nil, err
	}
	campaign := &models.Campaign{
		ManagerID: actor.ManagerID,
		IsActive:  true,
		Theme:     defaultTheme,
	}
	applyCampaignRequest(campaign, req)
	campaign.CreatedAt = s.now()
	campaign.UpdatedAt = campaign.CreatedAt

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		logx.L().Errorw("Failed to create campaign", "error", err, "managerId", actor.ManagerID)
		return nil, storeErr("create campaign", err)
	}
	logx.L().Infow("Campaign created", "campaignId", campaign.ID, "managerId", actor.ManagerID)

	if s.notifier != nil {
		if err := s.notifier.NotifyCampaignCreated(ctx, campaign); err != nil {
			logx.L().Warnw("Create: campaign email failed", "error", err, "campaignId", campaign.ID)
		}
	}
	return campaign, nil
}

// Get returns a campaign the actor manages
func (s *CampaignServiceImpl) Get(ctx context.Context, actor Actor, id string) (*models.Campaign, error) {
	return ownedCampaign(ctx, s.campaigns, actor, id)
}

// List returns the actor's campaigns; a super admin sees all of them
func (s *CampaignServiceImpl) List(ctx context.Context, actor Actor) ([]*models.Campaign, error) {
	var (
		campaigns []*models.Campaign
		err       error
	)
	if actor.IsSuperAdmin() {
		campaigns, err = s.campaigns.FindAll(ctx)
	} else {
		campaigns, err = s.campaigns.FindByManager(ctx, actor.ManagerID)
	}
	if err != nil {
		return nil, storeErr("list campaigns", err)
	}
	return campaigns, nil
}

// Update replaces the editable fields of a campaign
func (s *CampaignServiceImpl) Update(ctx context.Context, actor Actor, id string, req *models.CampaignRequest) (*models.Campaign, error) {
	if err := validateCampaignRequest(req); err != nil {
		return nil, err
	}
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return nil, err
	}
	applyCampaignRequest(campaign, req)
	return s.save(ctx, campaign)
}

// SetActive closes or reopens a campaign
func (s *CampaignServiceImpl) SetActive(ctx context.Context, actor Actor, id string, active bool) (*models.Campaign, error) {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return nil, err
	}
	campaign.IsActive = active
	return s.save(ctx, campaign)
}

func (s *CampaignServiceImpl) save(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	campaign.UpdatedAt = s.now()
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		logx.L().Errorw("Failed to update campaign", "error", err, "campaignId", campaign.ID)
		return nil, storeErr("update campaign", err)
	}
	return campaign, nil
}

// Delete removes a campaign together with its participants and draws
func (s *CampaignServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return err
	}
	if err := s.participants.DeleteByCampaign(ctx, campaign.ID); err != nil {
		return storeErr("delete participants", err)
	}
	if err := s.draws.DeleteByCampaign(ctx, campaign.ID); err != nil {
		return storeErr("delete draws", err)
	}
	if err := s.campaigns.Delete(ctx, campaign.ID); err != nil {
		return storeErr("delete campaign", err)
	}
	logx.L().Infow("Campaign deleted", "campaignId", campaign.ID, "managerId", actor.ManagerID)
	return nil
}

// Stats aggregates views, participants, task completion and tickets
func (s *CampaignServiceImpl) Stats(ctx context.Context, actor Actor, id string) (*models.CampaignStats, error) {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, storeErr("load participants", err)
	}

	stats := &models.CampaignStats{
		CampaignID:   campaign.ID,
		Views:        campaign.ViewsCount,
		Participants: len(participants),
	}
	for _, p := range participants {
		if p.Tasks.SharedWhatsApp {
			stats.Shares++
		}
		if p.Tasks.SavedContact {
			stats.ContactSaves++
		}
		stats.TotalTickets += p.EffectiveTickets()
	}
	if stats.Views > 0 {
		stats.ConversionRate = int(math.Round(float64(stats.Participants) / float64(stats.Views) * 100))
	}
	return stats, nil
}

// Participants lists a campaign's participants, newest first
func (s *CampaignServiceImpl) Participants(ctx context.Context, actor Actor, id string) ([]*models.Participant, error) {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, storeErr("load participants", err)
	}
	return participants, nil
}

// ExportCSV writes the participant list as CSV
func (s *CampaignServiceImpl) ExportCSV(ctx context.Context, actor Actor, id string, w io.Writer) error {
	participants, err := s.Participants(ctx, actor, id)
	if err != nil {
		return err
	}
	return utils.WriteParticipantsCSV(w, participants)
}

// ExportVCF writes every participant as a vCard
func (s *CampaignServiceImpl) ExportVCF(ctx context.Context, actor Actor, id string, w io.Writer) error {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, id)
	if err != nil {
		return err
	}
	participants, err := s.participants.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return storeErr("load participants", err)
	}
	return utils.WriteParticipantsVCF(w, participants, campaign.Title)
}

// ShareLink is the manager's short link of the campaign
func (s *CampaignServiceImpl) ShareLink(campaign *models.Campaign) string {
	return utils.CampaignShareURL(s.cfg.Server.PublicBaseURL, campaign.ID, "", s.cfg.Lottery.ShortIDLength)
}

// Resolve loads a campaign by full id, falling back to the lowest id with the given prefix
func (s *CampaignServiceImpl) Resolve(ctx context.Context, token string) (*models.Campaign, error) {
	if !utils.IsToken(token) {
		return nil, invalid("campaignId", "is malformed")
	}
	campaign, err := s.campaigns.FindByID(ctx, token)
	if err == nil {
		return campaign, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) || len(token) >= utils.DocumentIDLength {
		return nil, storeErr("load campaign", err)
	}

	if fullID, ok, cerr := s.shortIDs.Get(ctx, campaignCacheKind, token); cerr != nil {
		logx.L().Warnw("Resolve: short id cache read failed", "error", cerr, "prefix", token)
	} else if ok {
		campaign, err := s.campaigns.FindByID(ctx, fullID)
		if err == nil {
			return campaign, nil
		}
		logx.L().Warnw("Resolve: cached campaign id is stale", "error", err, "prefix", token, "campaignId", fullID)
	}

	campaign, err = s.campaigns.FindFirstByIDPrefix(ctx, token)
	if err != nil {
		return nil, storeErr("resolve campaign prefix", err)
	}
	if cerr := s.shortIDs.Set(ctx, campaignCacheKind, token, campaign.ID); cerr != nil {
		logx.L().Warnw("Resolve: short id cache write failed", "error", cerr, "prefix", token)
	}
	return campaign, nil
}

// PublicView returns the participant facing campaign and counts the view
func (s *CampaignServiceImpl) PublicView(ctx context.Context, token string) (*models.PublicCampaign, error) {
	campaign, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !campaign.AcceptsRegistrations(s.now()) {
		return nil, ErrCampaignClosed
	}
	if err := s.campaigns.IncrementCounter(ctx, campaign.ID, models.CounterViews, 1); err != nil {
		logx.L().Warnw("PublicView: failed to count view", "error", err, "campaignId", campaign.ID)
	}
	return campaign.Public(), nil
}

// Leaderboard returns the top ticket holders with masked names
func (s *CampaignServiceImpl) Leaderboard(ctx context.Context, token string) ([]models.LeaderboardEntry, error) {
	campaign, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	top, err := s.participants.FindTopByTickets(ctx, campaign.ID, s.cfg.Lottery.LeaderboardSize)
	if err != nil {
		return nil, storeErr("load leaderboard", err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(top))
	for i, p := range top {
		entries = append(entries, models.LeaderboardEntry{
			Rank:    i + 1,
			Name:    utils.MaskName(p.FullName),
			Tickets: p.EffectiveTickets(),
		})
	}
	return entries, nil
}

// ContactCard renders the campaign's contact as a vCard
func (s *CampaignServiceImpl) ContactCard(ctx context.Context, token string) (string, error) {
	campaign, err := s.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	if campaign.ContactPhoneNumber == "" {
		return "", ErrNotFound
	}
	name := campaign.ContactVCardName
	if name == "" {
		name = campaign.Title
	}
	phone := utils.InternationalPhone(campaign.ContactPhoneNumber, s.cfg.Lottery.DefaultCountryCode)
	return utils.VCard(name, phone, ""), nil
}

// ShortLinkTarget is where /l/:campaign[/:ref] redirects to. The referral token is passed through untouched.
func (s *CampaignServiceImpl) ShortLinkTarget(ctx context.Context, campaignToken, referralToken string) (string, error) {
	campaign, err := s.Resolve(ctx, campaignToken)
	if err != nil {
		return "", err
	}
	if !utils.IsToken(referralToken) {
		referralToken = ""
	}
	return utils.LandingURL(s.cfg.Server.PublicBaseURL, campaign.ID, referralToken), nil
}
