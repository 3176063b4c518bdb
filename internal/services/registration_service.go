package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
)

var _ RegistrationService = (*RegistrationServiceImpl)(nil)

// RegistrationServiceImpl runs Guard, Resolver and Ledger in that order
type RegistrationServiceImpl struct {
	campaigns    repositories.CampaignRepository
	participants repositories.ParticipantRepository
	guard        DuplicateGuard
	resolver     ReferralResolver
	ledger       TicketLedger
	tokens       *jwt.TokenService
	cfg          *config.Config
	now          func() time.Time
}

// NewRegistrationService creates a RegistrationService
func NewRegistrationService(
	store *repositories.Store,
	guard DuplicateGuard,
	resolver ReferralResolver,
	ledger TicketLedger,
	tokens *jwt.TokenService,
	cfg *config.Config,
) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		campaigns:    store.Campaigns,
		participants: store.Participants,
		guard:        guard,
		resolver:     resolver,
		ledger:       ledger,
		tokens:       tokens,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Register creates a participant, or resumes the existing one for a known phone.
// A resolved referrer is credited one ticket after the participant is stored; a failed credit is logged and swallowed.
func (s *RegistrationServiceImpl) Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	if req.CampaignID == "" {
		return nil, invalid("campaignId", "is required")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, invalid("fullName", "is required")
	}
	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		return nil, invalid("phone", "must contain 9 to 15 digits")
	}

	campaign, err := s.campaigns.FindByID(ctx, req.CampaignID)
	if err != nil {
		return nil, storeErr("load campaign", err)
	}
	if !campaign.AcceptsRegistrations(s.now()) {
		return nil, ErrCampaignClosed
	}

	existing, err := s.guard.FindExisting(ctx, campaign.ID, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logx.L().Infow("Register: phone already registered, resuming", "campaignId", campaign.ID, "participantId", existing.ID)
		metrics.RegistrationsTotal.WithLabelValues("reentry").Inc()
		return s.result(campaign, existing, true, false), nil
	}

	// The id is reserved up front so the resolver can refuse a self referral.
	participantID := utils.NewDocumentID()
	referrerID, err := s.resolver.Resolve(ctx, campaign.ID, strings.TrimSpace(req.ReferralToken), participantID)
	if err != nil {
		return nil, err
	}

	participant, err := s.ledger.CreateParticipant(ctx, campaign.ID, models.NewParticipant{
		ID:         participantID,
		FullName:   fullName,
		Phone:      phone,
		Email:      strings.TrimSpace(req.Email),
		ReferredBy: referrerID,
	})
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	credited := false
	if referrerID != "" {
		if err := s.ledger.CreditReferralTicket(ctx, campaign.ID, referrerID); err != nil {
			logx.L().Warnw("Register: referral credit failed, registration kept", "error", err, "campaignId", campaign.ID, "referrerId", referrerID)
			metrics.ReferralCreditsTotal.WithLabelValues("failed").Inc()
		} else {
			credited = true
			metrics.ReferralCreditsTotal.WithLabelValues("credited").Inc()
		}
	}

	logx.L().Infow("Participant registered", "campaignId", campaign.ID, "participantId", participant.ID,
		"phone", utils.MaskPhone(phone), "referrerId", referrerID, "referrerCredited", credited)
	return s.result(campaign, participant, false, credited), nil
}

// CompleteTask marks a task for a participant and returns the updated status
func (s *RegistrationServiceImpl) CompleteTask(ctx context.Context, campaignID, participantID string, task models.Task) (*models.ParticipantStatus, error) {
	if err := s.ledger.MarkTaskCompleted(ctx, campaignID, participantID, task); err != nil {
		return nil, err
	}
	return s.Status(ctx, campaignID, participantID)
}

// Status returns what a participant sees about their own entry
func (s *RegistrationServiceImpl) Status(ctx context.Context, campaignID, participantID string) (*models.ParticipantStatus, error) {
	participant, err := s.participants.FindByID(ctx, campaignID, participantID)
	if err != nil {
		return nil, storeErr("load participant", err)
	}
	return &models.ParticipantStatus{
		ParticipantID: participant.ID,
		FullName:      participant.FullName,
		Tickets:       participant.EffectiveTickets(),
		Tasks:         participant.Tasks,
		ShareURL:      s.shareURL(campaignID, participant.ID),
	}, nil
}

func (s *RegistrationServiceImpl) shareURL(campaignID, participantID string) string {
	return utils.CampaignShareURL(s.cfg.Server.PublicBaseURL, campaignID, participantID, s.cfg.Lottery.ShortIDLength)
}

func (s *RegistrationServiceImpl) result(campaign *models.Campaign, p *models.Participant, reentry, credited bool) *models.RegistrationResult {
	shareURL := s.shareURL(campaign.ID, p.ID)
	res := &models.RegistrationResult{
		CampaignID:       campaign.ID,
		ParticipantID:    p.ID,
		Tickets:          p.EffectiveTickets(),
		Reentry:          reentry,
		ReferrerCredited: credited,
		Tasks:            p.Tasks,
		ShareURL:         shareURL,
		WhatsAppShareURL: utils.WhatsAppShareURL(utils.ApplyShareText(campaign.WhatsAppShareText, shareURL)),
	}
	if s.tokens != nil {
		token, err := s.tokens.IssueParticipantToken(campaign.ID, p.ID)
		if err != nil {
			logx.L().Warnw("Register: failed to issue participant token", "error", err, "participantId", p.ID)
		}
		res.Token = token
	}
	return res
}
