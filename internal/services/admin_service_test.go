package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/matryer/is"
)

func TestAdminListsManagersWithCampaignCounts(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	maya, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Maya", Email: "maya@example.com", Password: "secret1"})
	is.NoErr(err)
	dan, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Dan", Email: "dan@example.com", Password: "secret1"})
	is.NoErr(err)
	boss, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Boss", Email: "boss@example.com", Password: "secret1"})
	is.NoErr(err)

	mayaActor := Actor{ManagerID: maya.Manager.ID, Role: maya.Manager.Role}
	for _, title := range []string{"Spring raffle", "Autumn raffle"} {
		_, err := env.campaigns.Create(ctx, mayaActor, validCampaignRequest(title))
		is.NoErr(err)
	}

	bossActor := Actor{ManagerID: boss.Manager.ID, Role: boss.Manager.Role}
	managers, err := env.admin.ListManagers(ctx, bossActor)
	is.NoErr(err)
	is.Equal(len(managers), 3)
	counts := map[string]int{}
	for _, m := range managers {
		counts[m.Email] = m.CampaignCount
	}
	is.Equal(counts["maya@example.com"], 2)
	is.Equal(counts["dan@example.com"], 0)
	is.Equal(counts["boss@example.com"], 0)

	campaigns, err := env.admin.ManagerCampaigns(ctx, bossActor, maya.Manager.ID)
	is.NoErr(err)
	is.Equal(len(campaigns), 2)
	for _, c := range campaigns {
		is.Equal(c.ManagerID, maya.Manager.ID)
	}

	campaigns, err = env.admin.ManagerCampaigns(ctx, bossActor, dan.Manager.ID)
	is.NoErr(err)
	is.Equal(len(campaigns), 0)

	_, err = env.admin.ManagerCampaigns(ctx, bossActor, "missing")
	is.True(errors.Is(err, ErrNotFound))
}

func TestAdminDirectoryIsSuperAdminOnly(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.admin.ListManagers(ctx, owner())
	is.True(errors.Is(err, ErrForbidden))
	_, err = env.admin.ManagerCampaigns(ctx, owner(), testManagerID)
	is.True(errors.Is(err, ErrSuperAdminOnly))
}

func TestCampaignCreationEmailsSuperAdmin(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	maya, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Maya", Email: "maya@example.com", Password: "secret1"})
	is.NoErr(err)
	is.Equal(len(env.mailer.Sent()), 1) // sign-up

	campaign, err := env.campaigns.Create(ctx, Actor{ManagerID: maya.Manager.ID, Role: models.RoleManager}, validCampaignRequest("Winter raffle"))
	is.NoErr(err)

	sent := env.mailer.Sent()
	is.Equal(len(sent), 2)
	is.Equal(sent[1].To, "boss@example.com")
	is.Equal(sent[1].Subject, "New campaign: Winter raffle")
	is.True(strings.Contains(sent[1].Text, "Maya (maya@example.com)"))

	log, err := env.store.Notifications.FindByCampaign(ctx, campaign.ID, 10)
	is.NoErr(err)
	is.Equal(len(log), 1)
	is.Equal(log[0].Type, NotificationCampaignCreated)
	is.Equal(log[0].Status, models.NotificationSent)
}

func TestCampaignCreationSurvivesMailFailure(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.mailer.Err = errStoreDown

	campaign, err := env.campaigns.Create(context.Background(), owner(), validCampaignRequest("Winter raffle"))
	is.NoErr(err)
	is.True(campaign.ID != "")

	log, err := env.store.Notifications.FindByCampaign(context.Background(), campaign.ID, 10)
	is.NoErr(err)
	is.Equal(len(log), 1)
	is.Equal(log[0].Status, models.NotificationFailed)
}

func TestSuperAdminOwnCampaignIsNotReported(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	boss, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Boss", Email: "boss@example.com", Password: "secret1"})
	is.NoErr(err)
	_, err = env.campaigns.Create(ctx, Actor{ManagerID: boss.Manager.ID, Role: boss.Manager.Role}, validCampaignRequest("House raffle"))
	is.NoErr(err)
	is.Equal(len(env.mailer.Sent()), 0)
}
