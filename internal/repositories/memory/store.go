// Package memory is an in-process store driver for local runs and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
)

// DB holds every collection behind one lock
type DB struct {
	mu            sync.RWMutex
	campaigns     map[string]models.Campaign
	participants  map[string]models.Participant
	draws         map[string]models.DrawRecord
	managers      map[string]models.Manager
	notifications []models.Notification
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		campaigns:    map[string]models.Campaign{},
		participants: map[string]models.Participant{},
		draws:        map[string]models.DrawRecord{},
		managers:     map[string]models.Manager{},
	}
}

// NewStore wires the in-memory repositories onto db
func NewStore(db *DB) *repositories.Store {
	return &repositories.Store{
		Campaigns:     &CampaignRepository{db: db},
		Participants:  &ParticipantRepository{db: db},
		Draws:         &DrawRepository{db: db},
		Managers:      &ManagerRepository{db: db},
		Notifications: &NotificationRepository{db: db},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CampaignRepository is the in-memory campaign store
type CampaignRepository struct{ db *DB }

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

func (r *CampaignRepository) Create(_ context.Context, campaign *models.Campaign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if campaign.ID == "" {
		campaign.ID = utils.NewDocumentID()
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	r.db.campaigns[campaign.ID] = *campaign
	return nil
}

func (r *CampaignRepository) FindByID(_ context.Context, id string) (*models.Campaign, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.campaigns[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *CampaignRepository) FindFirstByIDPrefix(_ context.Context, prefix string) (*models.Campaign, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, id := range sortedKeys(r.db.campaigns) {
		if strings.HasPrefix(id, prefix) {
			c := r.db.campaigns[id]
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *CampaignRepository) FindByManager(_ context.Context, managerID string) ([]*models.Campaign, error) {
	return r.list(func(c *models.Campaign) bool { return c.ManagerID == managerID }), nil
}

func (r *CampaignRepository) FindAll(_ context.Context) ([]*models.Campaign, error) {
	return r.list(func(*models.Campaign) bool { return true }), nil
}

func (r *CampaignRepository) list(keep func(*models.Campaign) bool) []*models.Campaign {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.Campaign{}
	for _, c := range r.db.campaigns {
		c := c
		if keep(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *CampaignRepository) Update(_ context.Context, campaign *models.Campaign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.campaigns[campaign.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := *campaign
	updated.ViewsCount = stored.ViewsCount
	updated.ParticipantsCount = stored.ParticipantsCount
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	r.db.campaigns[campaign.ID] = updated
	return nil
}

func (r *CampaignRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.campaigns[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.db.campaigns, id)
	return nil
}

func (r *CampaignRepository) IncrementCounter(_ context.Context, id string, counter models.CampaignCounter, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.campaigns[id]
	if !ok {
		return repositories.ErrNotFound
	}
	switch counter {
	case models.CounterViews:
		c.ViewsCount += delta
	case models.CounterParticipants:
		c.ParticipantsCount += delta
	default:
		return errors.New("unknown campaign counter " + string(counter))
	}
	r.db.campaigns[id] = c
	return nil
}

// ParticipantRepository is the in-memory participant store
type ParticipantRepository struct{ db *DB }

var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

func (r *ParticipantRepository) Create(_ context.Context, participant *models.Participant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if participant.ID == "" {
		participant.ID = utils.NewDocumentID()
	}
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}
	r.db.participants[participant.ID] = clone(*participant)
	return nil
}

func (r *ParticipantRepository) FindByID(_ context.Context, campaignID, id string) (*models.Participant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.participants[id]
	if !ok || p.CampaignID != campaignID {
		return nil, repositories.ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (r *ParticipantRepository) FindFirstByIDPrefix(_ context.Context, campaignID, prefix string) (*models.Participant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, id := range sortedKeys(r.db.participants) {
		p := r.db.participants[id]
		if p.CampaignID == campaignID && strings.HasPrefix(id, prefix) {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ParticipantRepository) FindByPhone(_ context.Context, campaignID, phone string) ([]*models.Participant, error) {
	out := r.list(func(p *models.Participant) bool { return p.CampaignID == campaignID && p.Phone == phone })
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *ParticipantRepository) FindByCampaign(_ context.Context, campaignID string) ([]*models.Participant, error) {
	out := r.list(func(p *models.Participant) bool { return p.CampaignID == campaignID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.After(out[j].JoinedAt) })
	return out, nil
}

func (r *ParticipantRepository) FindTopByTickets(_ context.Context, campaignID string, limit int) ([]*models.Participant, error) {
	out := r.list(func(p *models.Participant) bool { return p.CampaignID == campaignID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tickets != out[j].Tickets {
			return out[i].Tickets > out[j].Tickets
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// list returns matching participants in id order
func (r *ParticipantRepository) list(keep func(*models.Participant) bool) []*models.Participant {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.Participant{}
	for _, id := range sortedKeys(r.db.participants) {
		p := clone(r.db.participants[id])
		if keep(&p) {
			out = append(out, &p)
		}
	}
	return out
}

func (r *ParticipantRepository) IncrementTickets(_ context.Context, campaignID, id string, delta int) error {
	if delta <= 0 {
		return errors.New("tickets to add must be positive")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.participants[id]
	if !ok || p.CampaignID != campaignID {
		return repositories.ErrNotFound
	}
	p.Tickets += delta
	r.db.participants[id] = p
	return nil
}

func (r *ParticipantRepository) SetTaskCompleted(_ context.Context, campaignID, id string, task models.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.participants[id]
	if !ok || p.CampaignID != campaignID {
		return repositories.ErrNotFound
	}
	switch task {
	case models.TaskSavedContact:
		p.Tasks.SavedContact = true
	case models.TaskSharedWhatsApp:
		p.Tasks.SharedWhatsApp = true
	default:
		return errors.New("unknown task " + string(task))
	}
	r.db.participants[id] = p
	return nil
}

func (r *ParticipantRepository) DeleteByCampaign(_ context.Context, campaignID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, p := range r.db.participants {
		if p.CampaignID == campaignID {
			delete(r.db.participants, id)
		}
	}
	return nil
}

func clone(p models.Participant) models.Participant {
	if p.ReferredBy != nil {
		ref := *p.ReferredBy
		p.ReferredBy = &ref
	}
	return p
}

// DrawRepository is the in-memory draw history
type DrawRepository struct{ db *DB }

var _ repositories.DrawRepository = (*DrawRepository)(nil)

func (r *DrawRepository) Create(_ context.Context, draw *models.DrawRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	draw.ID = utils.NewDocumentID()
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	r.db.draws[draw.ID] = *draw
	return nil
}

func (r *DrawRepository) FindByCampaign(_ context.Context, campaignID string) ([]*models.DrawRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.DrawRecord{}
	for _, d := range r.db.draws {
		d := d
		if d.CampaignID == campaignID {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DrawRepository) DeleteByCampaign(_ context.Context, campaignID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, d := range r.db.draws {
		if d.CampaignID == campaignID {
			delete(r.db.draws, id)
		}
	}
	return nil
}

// ManagerRepository is the in-memory manager store
type ManagerRepository struct{ db *DB }

var _ repositories.ManagerRepository = (*ManagerRepository)(nil)

func (r *ManagerRepository) Create(_ context.Context, manager *models.Manager) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	manager.Email = strings.ToLower(manager.Email)
	for _, m := range r.db.managers {
		if m.Email == manager.Email {
			return repositories.ErrDuplicate
		}
	}
	manager.ID = utils.NewDocumentID()
	manager.CreatedAt = time.Now()
	manager.UpdatedAt = manager.CreatedAt
	r.db.managers[manager.ID] = *manager
	return nil
}

func (r *ManagerRepository) FindByID(_ context.Context, id string) (*models.Manager, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.managers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (r *ManagerRepository) FindByEmail(_ context.Context, email string) (*models.Manager, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	email = strings.ToLower(email)
	for _, m := range r.db.managers {
		if m.Email == email {
			m := m
			return &m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ManagerRepository) FindAll(_ context.Context) ([]*models.Manager, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Manager, 0, len(r.db.managers))
	for _, m := range r.db.managers {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// NotificationRepository is the in-memory notification log
type NotificationRepository struct{ db *DB }

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(_ context.Context, notification *models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	notification.ID = utils.NewDocumentID()
	notification.CreatedAt = time.Now()
	r.db.notifications = append(r.db.notifications, *notification)
	return nil
}

func (r *NotificationRepository) FindByCampaign(_ context.Context, campaignID string, limit int) ([]*models.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.Notification{}
	for i := len(r.db.notifications) - 1; i >= 0; i-- {
		n := r.db.notifications[i]
		if n.CampaignID != campaignID {
			continue
		}
		out = append(out, &n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
