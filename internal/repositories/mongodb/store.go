package mongodb

import (
	"context"
	"fmt"

	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewStore wires every MongoDB repository onto one database
func NewStore(db *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Campaigns:     NewCampaignRepository(db),
		Participants:  NewParticipantRepository(db),
		Draws:         NewDrawRepository(db),
		Managers:      NewManagerRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// EnsureIndexes creates the indexes the lottery queries rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"participants": {
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "phone", Value: 1}}},
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "tickets", Value: -1}}},
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "joinedAt", Value: -1}}},
		},
		"campaigns": {
			{Keys: bson.D{{Key: "managerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"managers": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"draws": {
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for collection, specs := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
