package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/draw"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
)

var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl loads a campaign's participants, runs the engine and records the outcome
type DrawServiceImpl struct {
	campaigns    repositories.CampaignRepository
	participants repositories.ParticipantRepository
	draws        repositories.DrawRepository
	engine       *draw.Engine
	notifier     NotificationService
	cfg          *config.Config
	now          func() time.Time
}

// NewDrawService creates a new DrawServiceImpl. notifier may be nil.
func NewDrawService(store *repositories.Store, engine *draw.Engine, notifier NotificationService, cfg *config.Config) *DrawServiceImpl {
	if engine == nil {
		engine = draw.NewEngine(nil)
	}
	return &DrawServiceImpl{
		campaigns:    store.Campaigns,
		participants: store.Participants,
		draws:        store.Draws,
		engine:       engine,
		notifier:     notifier,
		cfg:          cfg,
		now:          time.Now,
	}
}

// DrawWinners draws up to req.WinnerCount distinct winners from the campaign's participants.
// Nothing about the participants changes; the outcome is stored as a DrawRecord.
func (s *DrawServiceImpl) DrawWinners(ctx context.Context, req models.DrawRequest) (*models.DrawRecord, error) {
	if req.WinnerCount < 1 {
		return nil, invalid("winner_count", "must be at least 1")
	}
	winnerCount := req.WinnerCount
	if limit := s.cfg.Lottery.MaxWinners; limit > 0 && winnerCount > limit {
		logx.L().Warnw("DrawWinners: winner count capped", "requested", winnerCount, "max", limit, "campaignId", req.CampaignID)
		winnerCount = limit
	}

	actor := Actor{ManagerID: req.ManagerID, Role: req.ManagerRole}
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, req.CampaignID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		logx.L().Errorw("DrawWinners: failed to load participants", "error", err, "campaignId", campaign.ID)
		return nil, storeErr("load participants", err)
	}

	weighted := s.cfg.Lottery.WeightedAdditionalWinners
	if req.WeightedAdditionalWinners != nil {
		weighted = *req.WeightedAdditionalWinners
	}

	result, err := s.engine.Draw(entriesFromParticipants(participants), draw.Options{
		WinnerCount:               winnerCount,
		WeightedAdditionalWinners: weighted,
	})
	if err != nil {
		if errors.Is(err, draw.ErrEmptyPopulation) {
			logx.L().Warnw("DrawWinners: campaign has no participants", "campaignId", campaign.ID)
		}
		return nil, err
	}

	record := newDrawRecord(campaign.ID, req.ManagerID, winnerCount, weighted, result)
	record.CreatedAt = s.now()

	// The wheel grows with the population, so only the landing point is stored
	stored := *record
	stored.Spin.Segments = nil
	if err := s.draws.Create(ctx, &stored); err != nil {
		logx.L().Errorw("DrawWinners: failed to store draw record", "error", err, "campaignId", campaign.ID)
		return nil, storeErr("store draw", err)
	}
	record.ID = stored.ID

	metrics.DrawsTotal.Inc()
	metrics.DrawPopulation.Observe(float64(result.Population))
	for _, w := range record.Winners {
		logx.L().Infow("Draw winner selected", "drawId", record.ID, "position", w.Position,
			"participantId", w.ParticipantID, "phone", utils.MaskPhone(w.Phone), "tickets", w.Tickets)
	}

	if req.NotifyWinners {
		s.notifyWinners(ctx, campaign, record)
	}
	return record, nil
}

// History lists the draws of a campaign, newest first
func (s *DrawServiceImpl) History(ctx context.Context, actor Actor, campaignID string) ([]*models.DrawRecord, error) {
	campaign, err := ownedCampaign(ctx, s.campaigns, actor, campaignID)
	if err != nil {
		return nil, err
	}
	records, err := s.draws.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, storeErr("list draws", err)
	}
	return records, nil
}

func (s *DrawServiceImpl) notifyWinners(ctx context.Context, campaign *models.Campaign, record *models.DrawRecord) {
	if s.notifier == nil {
		return
	}
	for _, w := range record.Winners {
		text := fmt.Sprintf("Congratulations %s! You are winner #%d of \"%s\".", w.FullName, w.Position, campaign.Title)
		if err := s.notifier.SendWhatsApp(ctx, campaign.ID, "WINNER", w.Phone, text); err != nil {
			logx.L().Warnw("DrawWinners: failed to notify winner", "error", err, "participantId", w.ParticipantID)
		}
	}
}

func entriesFromParticipants(participants []*models.Participant) []draw.Entry {
	entries := make([]draw.Entry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, draw.Entry{ID: p.ID, Name: p.FullName, Phone: p.Phone, Tickets: p.Tickets})
	}
	return entries
}

func newDrawRecord(campaignID, managerID string, winnerCount int, weighted bool, result *draw.Result) *models.DrawRecord {
	record := &models.DrawRecord{
		CampaignID:   campaignID,
		ManagerID:    managerID,
		WinnerCount:  winnerCount,
		Weighted:     weighted,
		Population:   result.Population,
		TotalTickets: result.TotalTickets,
		Winners:      make([]models.DrawWinner, 0, len(result.Winners)),
		Picks:        make([]models.DrawPick, 0, len(result.Picks)),
		Spin: models.SpinPlan{
			Segments:       make([]models.SpinSegment, 0, len(result.Segments)),
			LandingIndex:   result.LandingIndex,
			LandingSegment: result.LandingSegment,
		},
	}
	for _, w := range result.Winners {
		record.Winners = append(record.Winners, models.DrawWinner{
			Position:      w.Position,
			ParticipantID: w.ID,
			FullName:      w.Name,
			Phone:         w.Phone,
			Tickets:       w.Weight(),
			Weighted:      w.Weighted,
		})
	}
	for _, seg := range result.Segments {
		record.Spin.Segments = append(record.Spin.Segments, models.SpinSegment{
			ParticipantID: seg.EntryID,
			Name:          seg.Name,
			Start:         seg.Start,
			Tickets:       seg.Tickets,
		})
	}
	for _, p := range result.Picks {
		record.Picks = append(record.Picks, models.DrawPick{
			Round:         p.Round,
			PoolSize:      p.PoolSize,
			Drawn:         p.Drawn,
			ParticipantID: p.EntryID,
			Weighted:      p.Weighted,
		})
	}
	return record
}
