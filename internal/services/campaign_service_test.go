package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/matryer/is"
)

// mapCache is an in-process ShortIDCache
type mapCache struct {
	entries map[string]string
	hits    int
}

func (c *mapCache) Get(_ context.Context, kind, prefix string) (string, bool, error) {
	v, ok := c.entries[kind+":"+prefix]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, kind, prefix, fullID string) error {
	c.entries[kind+":"+prefix] = fullID
	return nil
}

func TestCampaignLifecycle(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	req := &models.CampaignRequest{
		Title:              "  Spring draw ",
		EndDate:            time.Now().Add(48 * time.Hour),
		ContactPhoneNumber: "050-123-4567",
	}

	created, err := env.campaigns.Create(ctx, owner(), req)
	is.NoErr(err)
	is.Equal(created.Title, "Spring draw")
	is.True(created.IsActive)
	is.Equal(created.Theme, defaultTheme)
	is.Equal(created.ContactPhoneNumber, "0501234567")
	is.Equal(env.campaigns.ShareLink(created), "https://lottery.test/l/"+created.ID[:6])

	closed, err := env.campaigns.SetActive(ctx, owner(), created.ID, false)
	is.NoErr(err)
	is.True(!closed.IsActive)

	_, err = env.campaigns.Get(ctx, Actor{ManagerID: "other"}, created.ID)
	is.True(errors.Is(err, ErrForbidden))

	list, err := env.campaigns.List(ctx, owner())
	is.NoErr(err)
	is.Equal(len(list), 1)
	list, err = env.campaigns.List(ctx, Actor{ManagerID: "other"})
	is.NoErr(err)
	is.Equal(len(list), 0)
	list, err = env.campaigns.List(ctx, Actor{ManagerID: "root", Role: models.RoleSuperAdmin})
	is.NoErr(err)
	is.Equal(len(list), 1)

	_, err = env.campaigns.Create(ctx, owner(), &models.CampaignRequest{EndDate: time.Now()})
	is.True(IsValidation(err))
}

func TestCampaignDeleteCascades(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCampaign(t, nil)
	env.seedParticipant(t, "P1", "0520000001", 1)
	_, err := env.draws.DrawWinners(ctx, drawRequest(1))
	is.NoErr(err)

	is.NoErr(env.campaigns.Delete(ctx, owner(), testCampaignID))

	_, err = env.store.Campaigns.FindByID(ctx, testCampaignID)
	is.True(errors.Is(err, ErrNotFound))
	left, err := env.store.Participants.FindByCampaign(ctx, testCampaignID)
	is.NoErr(err)
	is.Equal(len(left), 0)
	draws, err := env.store.Draws.FindByCampaign(ctx, testCampaignID)
	is.NoErr(err)
	is.Equal(len(draws), 0)
}

func TestCampaignStats(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCampaign(t, nil)
	for i := 0; i < 3; i++ {
		_, err := env.campaigns.PublicView(ctx, testCampaignID)
		is.NoErr(err)
	}
	a := env.register(t, "Dana Levi", "0521234567", "")
	b := env.register(t, "Noa", "0527654321", a.ParticipantID)
	_, err := env.registration.CompleteTask(ctx, testCampaignID, b.ParticipantID, models.TaskSharedWhatsApp)
	is.NoErr(err)
	_, err = env.registration.CompleteTask(ctx, testCampaignID, a.ParticipantID, models.TaskSavedContact)
	is.NoErr(err)

	stats, err := env.campaigns.Stats(ctx, owner(), testCampaignID)
	is.NoErr(err)
	is.Equal(stats.Views, 3)
	is.Equal(stats.Participants, 2)
	is.Equal(stats.Shares, 1)
	is.Equal(stats.ContactSaves, 1)
	is.Equal(stats.TotalTickets, 3)
	is.Equal(stats.ConversionRate, 67)
}

func TestCampaignResolveByPrefixUsesCache(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCampaign(t, nil)
	cache := &mapCache{entries: map[string]string{}}
	svc := NewCampaignService(env.store, cache, env.cfg)

	c, err := svc.Resolve(ctx, testCampaignID[:6])
	is.NoErr(err)
	is.Equal(c.ID, testCampaignID)
	is.Equal(cache.entries["campaign:"+testCampaignID[:6]], testCampaignID)

	c, err = svc.Resolve(ctx, testCampaignID[:6])
	is.NoErr(err)
	is.Equal(c.ID, testCampaignID)
	is.Equal(cache.hits, 1)

	_, err = svc.Resolve(ctx, "nothing")
	is.True(errors.Is(err, ErrNotFound))
	_, err = svc.Resolve(ctx, "bad id!")
	is.True(IsValidation(err))
}

func TestPublicViewOfClosedCampaign(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, func(c *models.Campaign) { c.IsActive = false })

	_, err := env.campaigns.PublicView(context.Background(), testCampaignID[:6])
	is.True(errors.Is(err, ErrCampaignClosed))
}

func TestLeaderboardMasksNames(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	top := env.register(t, "Dana Levi", "0521234567", "")
	env.register(t, "Noa", "0527654321", top.ParticipantID)
	env.register(t, "Avi Cohen", "0527654322", top.ParticipantID)

	board, err := env.campaigns.Leaderboard(context.Background(), testCampaignID)
	is.NoErr(err)
	is.Equal(len(board), 3)
	is.Equal(board[0], models.LeaderboardEntry{Rank: 1, Name: "Dana L.", Tickets: 3})
	is.Equal(board[1].Tickets, 1)
}

func TestContactCardAndShortLink(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCampaign(t, func(c *models.Campaign) { c.ContactVCardName = "Raffle Desk" })

	card, err := env.campaigns.ContactCard(ctx, testCampaignID)
	is.NoErr(err)
	is.True(strings.Contains(card, "FN:Raffle Desk"))
	is.True(strings.Contains(card, "TEL;TYPE=CELL:+972501234567"))

	target, err := env.campaigns.ShortLinkTarget(ctx, testCampaignID[:6], "abc123")
	is.NoErr(err)
	is.Equal(target, "https://lottery.test/?c="+testCampaignID+"&r=abc123")
}

func TestExportCSV(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	env.register(t, "Dana", "0521234567", "")

	var buf bytes.Buffer
	is.NoErr(env.campaigns.ExportCSV(context.Background(), owner(), testCampaignID, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), 2)
	is.Equal(lines[0], "\ufeff"+"full name,email,phone,joined at,saved contact,shared")
	is.True(strings.HasPrefix(lines[1], "Dana,,0521234567,"))
	is.True(strings.HasSuffix(lines[1], ",no,no"))

	err := env.campaigns.ExportCSV(context.Background(), Actor{ManagerID: "other"}, testCampaignID, &buf)
	is.True(errors.Is(err, ErrForbidden))
}
