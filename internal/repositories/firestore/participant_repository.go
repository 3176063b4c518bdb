package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"google.golang.org/api/iterator"
)

var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository handles Firestore operations for campaign participants
type ParticipantRepository struct {
	client *firestore.Client
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(client *firestore.Client) *ParticipantRepository {
	return &ParticipantRepository{client: client}
}

func (r *ParticipantRepository) collection(campaignID string) *firestore.CollectionRef {
	return r.client.Collection(campaignsCollection).Doc(campaignID).Collection(participantsCollection)
}

func setParticipantID(p *models.Participant, id string) { p.ID = id }

// Create stores a participant under its preset id or a Firestore generated one
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	ref := r.collection(participant.CampaignID).NewDoc()
	if participant.ID != "" {
		ref = r.collection(participant.CampaignID).Doc(participant.ID)
	}
	participant.ID = ref.ID
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}
	_, err := ref.Create(ctx, participant)
	return err
}

// FindByID finds a participant of a campaign by ID
func (r *ParticipantRepository) FindByID(ctx context.Context, campaignID, id string) (*models.Participant, error) {
	snap, err := r.collection(campaignID).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var participant models.Participant
	if err := snap.DataTo(&participant); err != nil {
		return nil, err
	}
	participant.ID = snap.Ref.ID
	return &participant, nil
}

// FindFirstByIDPrefix walks participant ids in ascending order and returns the first one starting with prefix
func (r *ParticipantRepository) FindFirstByIDPrefix(ctx context.Context, campaignID, prefix string) (*models.Participant, error) {
	it := r.collection(campaignID).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil, repositories.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		id := snap.Ref.ID
		if strings.HasPrefix(id, prefix) {
			var participant models.Participant
			if err := snap.DataTo(&participant); err != nil {
				return nil, err
			}
			participant.ID = id
			return &participant, nil
		}
		if id > prefix {
			return nil, repositories.ErrNotFound
		}
	}
}

// FindByPhone finds participants with an exact normalized phone, earliest first
func (r *ParticipantRepository) FindByPhone(ctx context.Context, campaignID, phone string) ([]*models.Participant, error) {
	found, err := readAll(r.collection(campaignID).Where("phone", "==", phone).Documents(ctx), setParticipantID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].JoinedAt.Before(found[j].JoinedAt) })
	return found, nil
}

// FindByCampaign lists participants, latest joiners first
func (r *ParticipantRepository) FindByCampaign(ctx context.Context, campaignID string) ([]*models.Participant, error) {
	it := r.collection(campaignID).OrderBy("joinedAt", firestore.Desc).Documents(ctx)
	return readAll(it, setParticipantID)
}

// FindTopByTickets returns the participants holding the most tickets
func (r *ParticipantRepository) FindTopByTickets(ctx context.Context, campaignID string, limit int) ([]*models.Participant, error) {
	it := r.collection(campaignID).OrderBy("tickets", firestore.Desc).Limit(limit).Documents(ctx)
	return readAll(it, setParticipantID)
}

// IncrementTickets atomically adds delta tickets to a participant
func (r *ParticipantRepository) IncrementTickets(ctx context.Context, campaignID, id string, delta int) error {
	if delta <= 0 {
		return errors.New("tickets to add must be positive")
	}
	_, err := r.collection(campaignID).Doc(id).Update(ctx, []firestore.Update{
		{Path: "tickets", Value: firestore.Increment(delta)},
	})
	return notFound(err)
}

// SetTaskCompleted raises a task flag
func (r *ParticipantRepository) SetTaskCompleted(ctx context.Context, campaignID, id string, task models.Task) error {
	var path string
	switch task {
	case models.TaskSavedContact:
		path = "tasksCompleted.savedContact"
	case models.TaskSharedWhatsApp:
		path = "tasksCompleted.sharedWhatsapp"
	default:
		return errors.New("unknown task " + string(task))
	}
	_, err := r.collection(campaignID).Doc(id).Update(ctx, []firestore.Update{{Path: path, Value: true}})
	return notFound(err)
}

// DeleteByCampaign removes the participants sub-collection
func (r *ParticipantRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	return deleteAll(ctx, r.collection(campaignID).Documents(ctx))
}
