package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories/memory"
	"github.com/matryer/is"
)

func TestReferralResolver(t *testing.T) {
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	env.seedParticipant(t, "abc123ZZZZ", "0520000001", 1)
	env.seedParticipant(t, "abc123AAAA", "0520000002", 1)
	env.seedParticipant(t, "abc123", "0520000003", 1)
	env.seedParticipant(t, "xyz789QQQQ", "0520000004", 1)
	resolver := NewReferralResolver(env.store.Participants)

	tests := []struct {
		name    string
		token   string
		exclude string
		want    string
	}{
		{"exact match preferred over prefix", "abc123", "", "abc123"},
		{"prefix picks lowest id", "abc123A", "", "abc123AAAA"},
		{"short prefix picks lowest id", "abc", "", "abc123"},
		{"unique prefix", "xyz", "", "xyz789QQQQ"},
		{"full id", "abc123ZZZZ", "", "abc123ZZZZ"},
		{"unknown", "qqq", "", ""},
		{"empty", "", "", ""},
		{"malformed", "abc/../", "", ""},
		{"self referral ignored", "xyz789", "xyz789QQQQ", ""},
		{"exclude does not hide others", "abc123Z", "abc123AAAA", "abc123ZZZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := resolver.Resolve(context.Background(), testCampaignID, tt.token, tt.exclude)
			is.NoErr(err)
			is.Equal(got, tt.want)
		})
	}
}

func TestReferralResolverIsScopedToCampaign(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	other := &models.Participant{ID: "abc123OTHER", CampaignID: "another-campaign", Phone: "0520000009", Tickets: 1}
	is.NoErr(env.store.Participants.Create(context.Background(), other))

	got, err := NewReferralResolver(env.store.Participants).Resolve(context.Background(), testCampaignID, "abc123", "")
	is.NoErr(err)
	is.Equal(got, "")
}

func TestReferralResolverSurfacesStoreErrors(t *testing.T) {
	is := is.New(t)
	flaky := &failingLookups{ParticipantRepository: memory.NewStore(memory.NewDB()).Participants}
	_, err := NewReferralResolver(flaky).Resolve(context.Background(), testCampaignID, "abc123", "")
	is.True(IsTransient(err))
}

func TestSelfReferralEarnsNothing(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	env.registration.resolver = &recordingResolver{inner: env.registration.resolver}

	res := env.register(t, "Dana", "0521234567", "")
	rec := env.registration.resolver.(*recordingResolver)
	is.Equal(rec.excluded, res.ParticipantID) // the new participant's own id is excluded

	// Once registered, using one's own link only resumes the existing entry.
	again := env.register(t, "Dana", "0521234567", res.ParticipantID[:6])
	is.True(again.Reentry)
	is.Equal(env.participant(t, res.ParticipantID).Tickets, 1)
}

func TestDuplicateGuard(t *testing.T) {
	env := newTestEnv(t)
	env.seedCampaign(t, nil)
	env.seedParticipant(t, "P1", "0521234567", 3)
	guard := NewDuplicateGuard(env.store.Participants)

	t.Run("finds exact phone", func(t *testing.T) {
		is := is.New(t)
		p, err := guard.FindExisting(context.Background(), testCampaignID, "0521234567")
		is.NoErr(err)
		is.Equal(p.ID, "P1")
	})
	t.Run("no fuzzy matching", func(t *testing.T) {
		is := is.New(t)
		p, err := guard.FindExisting(context.Background(), testCampaignID, "521234567")
		is.NoErr(err)
		is.Equal(p, nil)
	})
	t.Run("other campaign", func(t *testing.T) {
		is := is.New(t)
		p, err := guard.FindExisting(context.Background(), "elsewhere", "0521234567")
		is.NoErr(err)
		is.Equal(p, nil)
	})
	t.Run("rejects unnormalized phone", func(t *testing.T) {
		is := is.New(t)
		_, err := guard.FindExisting(context.Background(), testCampaignID, "052-123-4567")
		is.True(IsValidation(err))
	})
}

func TestLedgerCreditRequiresExistingReferrer(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)

	err := env.ledger.CreditReferralTicket(context.Background(), testCampaignID, "ghost")
	is.True(errors.Is(err, ErrNotFound))
	err = env.ledger.CreditReferralTicket(context.Background(), testCampaignID, "")
	is.True(IsValidation(err))
}

type recordingResolver struct {
	inner    ReferralResolver
	excluded string
}

func (r *recordingResolver) Resolve(ctx context.Context, campaignID, token, excludeID string) (string, error) {
	r.excluded = excludeID
	return r.inner.Resolve(ctx, campaignID, token, excludeID)
}

// failingLookups fails every id lookup
type failingLookups struct {
	repositories.ParticipantRepository
}

func (f *failingLookups) FindByID(context.Context, string, string) (*models.Participant, error) {
	return nil, errStoreDown
}
