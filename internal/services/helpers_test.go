package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/draw"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories/memory"
	"github.com/ArowuTest/viral-lottery-backend/pkg/email"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/whatsapp"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

const (
	testCampaignID = "C1campaign0000000001"
	testManagerID  = "M1manager00000000001"
)

type testEnv struct {
	store        *repositories.Store
	cfg          *config.Config
	tokens       *jwt.TokenService
	gateway      *whatsapp.MockGateway
	mailer       *email.MockSender
	campaigns    *CampaignServiceImpl
	notifier     *NotificationServiceImpl
	ledger       *TicketLedgerImpl
	registration *RegistrationServiceImpl
	draws        *DrawServiceImpl
	auth         AuthService
	admin        *AdminServiceImpl
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.PublicBaseURL = "https://lottery.test"
	cfg.Lottery.ShortIDLength = 6
	cfg.Lottery.LeaderboardSize = 5
	cfg.Lottery.MaxWinners = 100
	cfg.Lottery.DefaultCountryCode = "972"
	cfg.Email.SuperAdminEmail = "boss@example.com"
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logx.Set(zap.NewNop().Sugar())
	return newTestEnvWithStore(t, memory.NewStore(memory.NewDB()))
}

func newTestEnvWithStore(t *testing.T, store *repositories.Store) *testEnv {
	t.Helper()
	cfg := testConfig()
	env := &testEnv{
		store:   store,
		cfg:     cfg,
		tokens:  jwt.NewTokenService("test-secret", time.Hour),
		gateway: whatsapp.NewMockGateway("TEST"),
		mailer:  &email.MockSender{},
	}
	env.campaigns = NewCampaignService(store, nil, cfg)
	env.notifier = NewNotificationService(store, env.campaigns, env.gateway, env.mailer, cfg)
	env.campaigns.SetNotifier(env.notifier)
	env.admin = NewAdminService(store)
	env.ledger = NewTicketLedger(store.Campaigns, store.Participants)
	env.registration = NewRegistrationService(store,
		NewDuplicateGuard(store.Participants),
		NewReferralResolver(store.Participants),
		env.ledger, env.tokens, cfg)
	env.draws = NewDrawService(store, draw.NewEngine(draw.NewSeededSource(1)), env.notifier, cfg)
	env.auth = NewAuthService(store.Managers, env.tokens, env.notifier, cfg.Email.SuperAdminEmail)
	return env
}

func (env *testEnv) seedCampaign(t *testing.T, mutate func(*models.Campaign)) *models.Campaign {
	t.Helper()
	c := &models.Campaign{
		ID:                 testCampaignID,
		ManagerID:          testManagerID,
		Title:              "Summer raffle",
		EndDate:            time.Now().Add(24 * time.Hour),
		IsActive:           true,
		ContactPhoneNumber: "0501234567",
		WhatsAppShareText:  "Join me: {{link}}",
	}
	if mutate != nil {
		mutate(c)
	}
	is.New(t).NoErr(env.store.Campaigns.Create(context.Background(), c))
	return c
}

func (env *testEnv) seedParticipant(t *testing.T, id, phone string, tickets int) *models.Participant {
	t.Helper()
	p := &models.Participant{ID: id, CampaignID: testCampaignID, FullName: "Seed " + id, Phone: phone, Tickets: tickets}
	is.New(t).NoErr(env.store.Participants.Create(context.Background(), p))
	return p
}

func (env *testEnv) participant(t *testing.T, id string) *models.Participant {
	t.Helper()
	p, err := env.store.Participants.FindByID(context.Background(), testCampaignID, id)
	is.New(t).NoErr(err)
	return p
}

func (env *testEnv) register(t *testing.T, name, phone, ref string) *models.RegistrationResult {
	t.Helper()
	res, err := env.registration.Register(context.Background(), models.RegistrationRequest{
		CampaignID:    testCampaignID,
		FullName:      name,
		Phone:         phone,
		ReferralToken: ref,
	})
	is.New(t).NoErr(err)
	return res
}

func owner() Actor { return Actor{ManagerID: testManagerID, Role: models.RoleManager} }

// flakyParticipants fails selected participant operations
type flakyParticipants struct {
	repositories.ParticipantRepository
	incrementErr error
	phoneErr     error
	calls        int
}

func (f *flakyParticipants) IncrementTickets(ctx context.Context, campaignID, id string, delta int) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	return f.ParticipantRepository.IncrementTickets(ctx, campaignID, id, delta)
}

func (f *flakyParticipants) FindByPhone(ctx context.Context, campaignID, phone string) ([]*models.Participant, error) {
	f.calls++
	if f.phoneErr != nil {
		return nil, f.phoneErr
	}
	return f.ParticipantRepository.FindByPhone(ctx, campaignID, phone)
}

var errStoreDown = errors.New("store unavailable")

func validCampaignRequest(title string) *models.CampaignRequest {
	return &models.CampaignRequest{
		Title:              title,
		EndDate:            time.Now().Add(48 * time.Hour),
		ContactPhoneNumber: "050-123-4567",
	}
}
