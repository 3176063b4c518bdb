package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
)

var _ ReferralResolver = (*ReferralResolverImpl)(nil)

// ReferralResolverImpl resolves exact ids first, then id prefixes
type ReferralResolverImpl struct {
	participants repositories.ParticipantRepository
}

// NewReferralResolver creates a ReferralResolver
func NewReferralResolver(participants repositories.ParticipantRepository) *ReferralResolverImpl {
	return &ReferralResolverImpl{participants: participants}
}

// Resolve maps a referral token to a participant id of the campaign.
// When several ids share a prefix the lowest id wins. A token resolving to excludeID yields "".
func (r *ReferralResolverImpl) Resolve(ctx context.Context, campaignID, referralToken, excludeID string) (string, error) {
	if !utils.IsToken(referralToken) {
		if referralToken != "" {
			metrics.ReferralCreditsTotal.WithLabelValues("unresolved").Inc()
		}
		return "", nil
	}

	referrer, err := r.participants.FindByID(ctx, campaignID, referralToken)
	if errors.Is(err, repositories.ErrNotFound) {
		referrer, err = r.participants.FindFirstByIDPrefix(ctx, campaignID, referralToken)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		logx.L().Infow("Resolve: referral token matched nobody", "campaignId", campaignID, "token", referralToken)
		metrics.ReferralCreditsTotal.WithLabelValues("unresolved").Inc()
		return "", nil
	}
	if err != nil {
		logx.L().Errorw("Resolve: referrer lookup failed", "error", err, "campaignId", campaignID, "token", referralToken)
		return "", storeErr("resolve referral", err)
	}

	if excludeID != "" && referrer.ID == excludeID {
		logx.L().Infow("Resolve: ignoring self referral", "campaignId", campaignID, "participantId", excludeID)
		metrics.ReferralCreditsTotal.WithLabelValues("self").Inc()
		return "", nil
	}
	return referrer.ID, nil
}
