package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/matryer/is"
)

func TestPrefixLookupPicksLowestID(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := NewStore(NewDB())

	for _, id := range []string{"abcZZZ", "abc999", "abcAAA", "xyz000"} {
		is.NoErr(store.Participants.Create(ctx, &models.Participant{ID: id, CampaignID: "C1", Tickets: 1}))
	}
	is.NoErr(store.Participants.Create(ctx, &models.Participant{ID: "abc000", CampaignID: "C2", Tickets: 1}))

	p, err := store.Participants.FindFirstByIDPrefix(ctx, "C1", "abc")
	is.NoErr(err)
	is.Equal(p.ID, "abc999") // digits sort before letters

	_, err = store.Participants.FindFirstByIDPrefix(ctx, "C1", "zzz")
	is.True(errors.Is(err, repositories.ErrNotFound))

	is.NoErr(store.Campaigns.Create(ctx, &models.Campaign{ID: "campB"}))
	is.NoErr(store.Campaigns.Create(ctx, &models.Campaign{ID: "campA"}))
	c, err := store.Campaigns.FindFirstByIDPrefix(ctx, "camp")
	is.NoErr(err)
	is.Equal(c.ID, "campA")
}

func TestParticipantsAreCopies(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := NewStore(NewDB())

	is.NoErr(store.Participants.Create(ctx, &models.Participant{ID: "P1", CampaignID: "C1", Tickets: 1}))
	p, err := store.Participants.FindByID(ctx, "C1", "P1")
	is.NoErr(err)
	p.Tickets = 99

	again, err := store.Participants.FindByID(ctx, "C1", "P1")
	is.NoErr(err)
	is.Equal(again.Tickets, 1)
}

func TestIncrementTicketsAndTasks(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := NewStore(NewDB())

	is.NoErr(store.Participants.Create(ctx, &models.Participant{ID: "P1", CampaignID: "C1", Tickets: 1}))
	is.NoErr(store.Participants.IncrementTickets(ctx, "C1", "P1", 1))
	is.True(store.Participants.IncrementTickets(ctx, "C1", "P1", 0) != nil)
	is.True(errors.Is(store.Participants.IncrementTickets(ctx, "C2", "P1", 1), repositories.ErrNotFound))

	is.NoErr(store.Participants.SetTaskCompleted(ctx, "C1", "P1", models.TaskSavedContact))
	is.NoErr(store.Participants.SetTaskCompleted(ctx, "C1", "P1", models.TaskSavedContact))

	p, err := store.Participants.FindByID(ctx, "C1", "P1")
	is.NoErr(err)
	is.Equal(p.Tickets, 2)
	is.Equal(p.Tasks, models.Tasks{SavedContact: true})
}

func TestLeaderboardOrder(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := NewStore(NewDB())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, tickets := range []int{2, 5, 2, 1} {
		is.NoErr(store.Participants.Create(ctx, &models.Participant{
			ID: string(rune('A' + i)), CampaignID: "C1", Tickets: tickets, JoinedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	top, err := store.Participants.FindTopByTickets(ctx, "C1", 3)
	is.NoErr(err)
	is.Equal(len(top), 3)
	is.Equal(top[0].ID, "B")
	is.Equal(top[1].ID, "A") // equal tickets: earlier joiner first
	is.Equal(top[2].ID, "C")
}

func TestManagersListedNewestFirst(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := NewStore(NewDB())

	for _, addr := range []string{"First@example.com", "second@example.com"} {
		is.NoErr(store.Managers.Create(ctx, &models.Manager{Email: addr}))
		time.Sleep(time.Millisecond)
	}
	is.True(errors.Is(store.Managers.Create(ctx, &models.Manager{Email: "first@EXAMPLE.com"}), repositories.ErrDuplicate))

	managers, err := store.Managers.FindAll(ctx)
	is.NoErr(err)
	is.Equal(len(managers), 2)
	is.Equal(managers[0].Email, "second@example.com")
	is.Equal(managers[1].Email, "first@example.com")

	managers[0].Email = "changed@example.com"
	again, err := store.Managers.FindByID(ctx, managers[0].ID)
	is.NoErr(err)
	is.Equal(again.Email, "second@example.com")
}
