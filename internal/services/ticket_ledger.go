package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
)

var _ TicketLedger = (*TicketLedgerImpl)(nil)

// TicketLedgerImpl creates participants and moves their ticket counts.
// Ticket counts only ever grow, always through the store's atomic increment.
type TicketLedgerImpl struct {
	campaigns    repositories.CampaignRepository
	participants repositories.ParticipantRepository
	now          func() time.Time
}

// NewTicketLedger creates a TicketLedger
func NewTicketLedger(campaigns repositories.CampaignRepository, participants repositories.ParticipantRepository) *TicketLedgerImpl {
	return &TicketLedgerImpl{campaigns: campaigns, participants: participants, now: time.Now}
}

// CreateParticipant stores a first-time registrant with exactly one ticket and no completed tasks.
// p.ID may be preset by the caller; otherwise the store generates one.
func (l *TicketLedgerImpl) CreateParticipant(ctx context.Context, campaignID string, p models.NewParticipant) (*models.Participant, error) {
	participant := &models.Participant{
		ID:         p.ID,
		CampaignID: campaignID,
		FullName:   p.FullName,
		Phone:      p.Phone,
		Email:      p.Email,
		Tickets:    1,
		JoinedAt:   l.now(),
	}
	if p.ReferredBy != "" {
		referredBy := p.ReferredBy
		participant.ReferredBy = &referredBy
	}

	if err := l.participants.Create(ctx, participant); err != nil {
		logx.L().Errorw("CreateParticipant: failed to store participant", "error", err, "campaignId", campaignID, "phone", utils.MaskPhone(p.Phone))
		return nil, storeErr("create participant", err)
	}

	if err := l.campaigns.IncrementCounter(ctx, campaignID, models.CounterParticipants, 1); err != nil {
		logx.L().Warnw("CreateParticipant: failed to bump participant counter", "error", err, "campaignId", campaignID)
	}
	return participant, nil
}

// CreditReferralTicket adds exactly one ticket to the referrer.
// Callers treat a failure as best-effort and must not fail the registration on it.
func (l *TicketLedgerImpl) CreditReferralTicket(ctx context.Context, campaignID, referrerID string) error {
	if referrerID == "" {
		return invalid("referrer", "id is required")
	}
	if err := l.participants.IncrementTickets(ctx, campaignID, referrerID, 1); err != nil {
		return storeErr(fmt.Sprintf("credit referrer %s", referrerID), err)
	}
	return nil
}

// MarkTaskCompleted sets one task flag. Setting a flag that is already set is a no-op.
func (l *TicketLedgerImpl) MarkTaskCompleted(ctx context.Context, campaignID, participantID string, task models.Task) error {
	if _, ok := models.ParseTask(string(task)); !ok {
		return invalid("task", fmt.Sprintf("unknown task %q", task))
	}
	if err := l.participants.SetTaskCompleted(ctx, campaignID, participantID, task); err != nil {
		logx.L().Errorw("MarkTaskCompleted: failed to set task", "error", err, "campaignId", campaignID, "participantId", participantID, "task", task)
		return storeErr("mark task completed", err)
	}
	return nil
}
