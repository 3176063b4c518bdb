package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/matryer/is"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updateReply(matched int) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: matched}, {Key: "nModified", Value: matched}}
}

func TestParticipantRepositoryIncrementTickets(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("matched", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(updateReply(1))
		is.NoErr(repo.IncrementTickets(context.Background(), "cmp", "p1", 1))
	})

	mt.Run("missing participant", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(updateReply(0))
		err := repo.IncrementTickets(context.Background(), "cmp", "nobody", 1)
		is.True(errors.Is(err, repositories.ErrNotFound))
	})

	mt.Run("rejects non positive delta", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		is.True(repo.IncrementTickets(context.Background(), "cmp", "p1", 0) != nil)
	})
}

func TestParticipantRepositorySetTaskCompleted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("raises flag", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(updateReply(1))
		is.NoErr(repo.SetTaskCompleted(context.Background(), "cmp", "p1", models.TaskSavedContact))
	})

	mt.Run("unknown task", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		is.True(repo.SetTaskCompleted(context.Background(), "cmp", "p1", models.Task("dance")) != nil)
	})
}

func TestParticipantRepositoryFind(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("by id", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lottery.participants", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "Xy12abCD"},
			{Key: "campaignId", Value: "cmp"},
			{Key: "fullName", Value: "Dana Levi"},
			{Key: "phone", Value: "0521234567"},
			{Key: "tickets", Value: 3},
			{Key: "tasksCompleted", Value: bson.D{{Key: "savedContact", Value: true}}},
		}))

		p, err := repo.FindByID(context.Background(), "cmp", "Xy12abCD")
		is.NoErr(err)
		is.Equal(p.ID, "Xy12abCD")
		is.Equal(p.Tickets, 3)
		is.True(p.Tasks.SavedContact)
		is.True(!p.Tasks.SharedWhatsApp)
	})

	mt.Run("by id missing", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lottery.participants", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), "cmp", "nope")
		is.True(errors.Is(err, repositories.ErrNotFound))
	})

	mt.Run("by phone returns empty slice", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewParticipantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lottery.participants", mtest.FirstBatch))

		found, err := repo.FindByPhone(context.Background(), "cmp", "0521234567")
		is.NoErr(err)
		is.True(found != nil)
		is.Equal(len(found), 0)
	})
}

func TestCampaignRepositoryIncrementCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("views", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewCampaignRepository(mt.DB)
		mt.AddMockResponses(updateReply(1))
		is.NoErr(repo.IncrementCounter(context.Background(), "cmp", models.CounterViews, 1))
	})

	mt.Run("unknown counter", func(mt *mtest.T) {
		is := is.New(mt)
		repo := NewCampaignRepository(mt.DB)
		is.True(repo.IncrementCounter(context.Background(), "cmp", models.CampaignCounter("likes"), 1) != nil)
	})
}
