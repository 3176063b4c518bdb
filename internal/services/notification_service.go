package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/email"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
	"github.com/ArowuTest/viral-lottery-backend/pkg/whatsapp"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// Notification types
const (
	NotificationWelcome         = "WELCOME"
	NotificationShare           = "SHARE"
	NotificationWinner          = "WINNER"
	NotificationManagerSignup   = "MANAGER_SIGNUP"
	NotificationCampaignCreated = "CAMPAIGN_CREATED"
)

const webhookIncomingMessage = "incomingMessageReceived"

var startCommand = regexp.MustCompile(`(?i)START_([A-Za-z0-9]+)`)

// campaignResolver is the part of CampaignService the webhook needs
type campaignResolver interface {
	Resolve(ctx context.Context, token string) (*models.Campaign, error)
}

// NotificationServiceImpl sends WhatsApp and email messages and keeps a log of them
type NotificationServiceImpl struct {
	notifications repositories.NotificationRepository
	campaigns     repositories.CampaignRepository
	managers      repositories.ManagerRepository
	resolver      campaignResolver
	gateway       whatsapp.Gateway
	mailer        email.Sender
	cfg           *config.Config
	now           func() time.Time
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(
	store *repositories.Store,
	resolver campaignResolver,
	gateway whatsapp.Gateway,
	mailer email.Sender,
	cfg *config.Config,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notifications: store.Notifications,
		campaigns:     store.Campaigns,
		managers:      store.Managers,
		resolver:      resolver,
		gateway:       gateway,
		mailer:        mailer,
		cfg:           cfg,
		now:           time.Now,
	}
}

// SendWhatsApp sends one text message and logs it
func (s *NotificationServiceImpl) SendWhatsApp(ctx context.Context, campaignID, kind, phone, text string) error {
	recipient := utils.InternationalPhone(phone, s.cfg.Lottery.DefaultCountryCode)
	msgID, err := s.gateway.SendMessage(ctx, recipient, text)
	s.record(ctx, &models.Notification{
		CampaignID: campaignID,
		Channel:    models.ChannelWhatsApp,
		Type:       kind,
		Recipient:  recipient,
		Content:    text,
		MessageID:  msgID,
	}, err)
	if err != nil {
		logx.L().Errorw("Failed to send WhatsApp message", "error", err, "type", kind, "phone", utils.MaskPhone(recipient))
		return fmt.Errorf("failed to send whatsapp %s: %w", kind, err)
	}
	return nil
}

// NotifyManagerSignup emails the super admin about a new manager. It is a no-op without a super admin address.
func (s *NotificationServiceImpl) NotifyManagerSignup(ctx context.Context, manager *models.Manager) error {
	to := s.cfg.Email.SuperAdminEmail
	if to == "" || to == manager.Email {
		return nil
	}
	msg := email.Message{
		To:      to,
		Subject: "New manager sign-up: " + manager.DisplayName,
		Text:    fmt.Sprintf("%s (%s) created a manager account at %s.", manager.DisplayName, manager.Email, manager.CreatedAt.Format(time.RFC1123)),
	}
	err := s.mailer.Send(ctx, msg)
	s.record(ctx, &models.Notification{
		Channel:   models.ChannelEmail,
		Type:      NotificationManagerSignup,
		Recipient: to,
		Content:   msg.Subject,
	}, err)
	if err != nil {
		return fmt.Errorf("failed to email super admin: %w", err)
	}
	return nil
}

// NotifyCampaignCreated emails the super admin about a new campaign. Campaigns
// the super admin creates themselves are not reported.
func (s *NotificationServiceImpl) NotifyCampaignCreated(ctx context.Context, campaign *models.Campaign) error {
	to := s.cfg.Email.SuperAdminEmail
	if to == "" {
		return nil
	}
	owner := campaign.ManagerID
	if manager, err := s.managers.FindByID(ctx, campaign.ManagerID); err == nil {
		if manager.Email == to {
			return nil
		}
		owner = fmt.Sprintf("%s (%s)", manager.DisplayName, manager.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logx.L().Warnw("NotifyCampaignCreated: manager lookup failed", "error", err, "managerId", campaign.ManagerID)
	}
	msg := email.Message{
		To:      to,
		Subject: "New campaign: " + campaign.Title,
		Text: fmt.Sprintf("%s created the campaign %q, ending %s.\n%s",
			owner, campaign.Title, campaign.EndDate.Format(time.RFC1123), utils.CampaignShareURL(s.cfg.Server.PublicBaseURL, campaign.ID, "", s.cfg.Lottery.ShortIDLength)),
	}
	err := s.mailer.Send(ctx, msg)
	s.record(ctx, &models.Notification{
		CampaignID: campaign.ID,
		Channel:    models.ChannelEmail,
		Type:       NotificationCampaignCreated,
		Recipient:  to,
		Content:    msg.Subject,
	}, err)
	if err != nil {
		return fmt.Errorf("failed to email super admin: %w", err)
	}
	return nil
}

// HandleWebhook answers START_<campaign> messages with a welcome and a share link.
// It reports false for any webhook it ignores.
func (s *NotificationServiceImpl) HandleWebhook(ctx context.Context, hook *models.GreenWebhook) (bool, error) {
	if hook == nil || hook.TypeWebhook != webhookIncomingMessage {
		return false, nil
	}
	phone := hook.SenderPhone()
	text := hook.Text()
	if phone == "" || text == "" {
		return false, nil
	}
	match := startCommand.FindStringSubmatch(text)
	if match == nil {
		return false, nil
	}

	campaign, err := s.resolver.Resolve(ctx, match[1])
	if errors.Is(err, ErrNotFound) || IsValidation(err) {
		logx.L().Warnw("HandleWebhook: unknown campaign", "campaignToken", match[1], "phone", utils.MaskPhone(phone))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	shareLink := utils.CampaignShareURL(s.cfg.Server.PublicBaseURL, campaign.ID, "", s.cfg.Lottery.ShortIDLength)
	welcome := fmt.Sprintf("Welcome to \"%s\"! 🎉\nRegister here to get your ticket:\n%s", campaign.Title, shareLink)
	share := "Share this link with friends to earn more tickets:\n" + utils.ApplyShareText(campaign.WhatsAppShareText, shareLink)

	if err := s.SendWhatsApp(ctx, campaign.ID, NotificationWelcome, phone, welcome); err != nil {
		return false, err
	}
	if err := s.SendWhatsApp(ctx, campaign.ID, NotificationShare, phone, share); err != nil {
		return false, err
	}
	return true, nil
}

// History lists the latest notifications of a campaign
func (s *NotificationServiceImpl) History(ctx context.Context, actor Actor, campaignID string, limit int) ([]*models.Notification, error) {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, campaignID)
	if err != nil {
		return nil, err
	}
	items, err := s.notifications.FindByCampaign(ctx, campaign.ID, limit)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	return items, nil
}

// record stores the notification log entry; failures to log are only warned about
func (s *NotificationServiceImpl) record(ctx context.Context, n *models.Notification, sendErr error) {
	n.Status = models.NotificationSent
	if sendErr != nil {
		n.Status = models.NotificationFailed
		n.Error = sendErr.Error()
	}
	n.CreatedAt = s.now()
	metrics.NotificationsTotal.WithLabelValues(string(n.Channel), n.Status).Inc()
	if err := s.notifications.Create(ctx, n); err != nil {
		logx.L().Warnw("Failed to store notification log", "error", err, "type", n.Type)
	}
}
