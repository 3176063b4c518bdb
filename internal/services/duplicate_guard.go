package services

import (
	"context"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
)

var _ DuplicateGuard = (*DuplicateGuardImpl)(nil)

// DuplicateGuardImpl looks participants up by exact phone match
type DuplicateGuardImpl struct {
	participants repositories.ParticipantRepository
}

// NewDuplicateGuard creates a DuplicateGuard
func NewDuplicateGuard(participants repositories.ParticipantRepository) *DuplicateGuardImpl {
	return &DuplicateGuardImpl{participants: participants}
}

// FindExisting returns the earliest participant of the campaign registered with the phone.
// The phone must already be normalized; no fuzzy matching is attempted.
func (g *DuplicateGuardImpl) FindExisting(ctx context.Context, campaignID, normalizedPhone string) (*models.Participant, error) {
	if normalizedPhone == "" || utils.NormalizePhone(normalizedPhone) != normalizedPhone {
		return nil, invalid("phone", "must be normalized to digits only")
	}

	matches, err := g.participants.FindByPhone(ctx, campaignID, normalizedPhone)
	if err != nil {
		logx.L().Errorw("FindExisting: phone lookup failed", "error", err, "campaignId", campaignID, "phone", utils.MaskPhone(normalizedPhone))
		return nil, storeErr("find participant by phone", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		logx.L().Warnw("FindExisting: phone registered more than once", "campaignId", campaignID, "phone", utils.MaskPhone(normalizedPhone), "matches", len(matches))
	}
	return matches[0], nil
}
