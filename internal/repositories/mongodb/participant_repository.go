package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ParticipantRepository implements the interface
var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository handles MongoDB operations for participants
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("participants"),
	}
}

// Create inserts a new participant with a generated id
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = utils.NewDocumentID()
	}
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, participant)
	return err
}

// FindByID finds a participant of a campaign by ID
func (r *ParticipantRepository) FindByID(ctx context.Context, campaignID, id string) (*models.Participant, error) {
	var participant models.Participant
	filter := bson.M{"_id": id, "campaignId": campaignID}
	if err := r.collection.FindOne(ctx, filter).Decode(&participant); err != nil {
		return nil, notFound(err)
	}
	return &participant, nil
}

// FindFirstByIDPrefix finds the participant with the lowest id starting with prefix
func (r *ParticipantRepository) FindFirstByIDPrefix(ctx context.Context, campaignID, prefix string) (*models.Participant, error) {
	var participant models.Participant
	filter := bson.M{"campaignId": campaignID, "_id": idPrefixFilter(prefix)}
	opts := options.FindOne().SetSort(bson.M{"_id": 1})
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&participant); err != nil {
		return nil, notFound(err)
	}
	return &participant, nil
}

// FindByPhone finds participants of a campaign with an exact normalized phone
func (r *ParticipantRepository) FindByPhone(ctx context.Context, campaignID, phone string) ([]*models.Participant, error) {
	opts := options.Find().SetSort(bson.M{"joinedAt": 1})
	return r.find(ctx, bson.M{"campaignId": campaignID, "phone": phone}, opts)
}

// FindByCampaign lists the participants of a campaign, latest joiners first
func (r *ParticipantRepository) FindByCampaign(ctx context.Context, campaignID string) ([]*models.Participant, error) {
	opts := options.Find().SetSort(bson.M{"joinedAt": -1})
	return r.find(ctx, bson.M{"campaignId": campaignID}, opts)
}

// FindTopByTickets returns the participants holding the most tickets
func (r *ParticipantRepository) FindTopByTickets(ctx context.Context, campaignID string, limit int) ([]*models.Participant, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "tickets", Value: -1}, {Key: "joinedAt", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"campaignId": campaignID}, opts)
}

func (r *ParticipantRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Participant, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err = cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*models.Participant{}
	}
	return participants, nil
}

// IncrementTickets atomically adds delta tickets to a participant
func (r *ParticipantRepository) IncrementTickets(ctx context.Context, campaignID, id string, delta int) error {
	if delta <= 0 {
		return errors.New("tickets to add must be positive")
	}
	filter := bson.M{"_id": id, "campaignId": campaignID}
	update := bson.M{"$inc": bson.M{"tickets": delta}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// SetTaskCompleted raises a task flag. Setting an already raised flag is a no-op.
func (r *ParticipantRepository) SetTaskCompleted(ctx context.Context, campaignID, id string, task models.Task) error {
	field, err := taskField(task)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": id, "campaignId": campaignID}
	update := bson.M{"$set": bson.M{field: true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteByCampaign removes all participants of a campaign
func (r *ParticipantRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"campaignId": campaignID})
	return err
}

func taskField(task models.Task) (string, error) {
	switch task {
	case models.TaskSavedContact:
		return "tasksCompleted.savedContact", nil
	case models.TaskSharedWhatsApp:
		return "tasksCompleted.sharedWhatsapp", nil
	}
	return "", errors.New("unknown task " + string(task))
}
