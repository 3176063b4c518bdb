package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure ManagerRepository implements repositories.ManagerRepository
var _ repositories.ManagerRepository = (*ManagerRepository)(nil)

// ManagerRepository stores manager accounts
type ManagerRepository struct {
	collection *mongo.Collection
}

// NewManagerRepository creates a new repository for managers
func NewManagerRepository(db *mongo.Database) *ManagerRepository {
	return &ManagerRepository{
		collection: db.Collection("managers"),
	}
}

// Create inserts a new manager
func (r *ManagerRepository) Create(ctx context.Context, manager *models.Manager) error {
	manager.ID = utils.NewDocumentID()
	manager.Email = strings.ToLower(manager.Email)
	manager.CreatedAt = time.Now()
	manager.UpdatedAt = manager.CreatedAt
	if _, err := r.collection.InsertOne(ctx, manager); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID finds a manager by ID
func (r *ManagerRepository) FindByID(ctx context.Context, id string) (*models.Manager, error) {
	var manager models.Manager
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&manager); err != nil {
		return nil, notFound(err)
	}
	return &manager, nil
}

// FindByEmail finds a manager by their email address
func (r *ManagerRepository) FindByEmail(ctx context.Context, email string) (*models.Manager, error) {
	var manager models.Manager
	filter := bson.M{"email": strings.ToLower(email)}
	if err := r.collection.FindOne(ctx, filter).Decode(&manager); err != nil {
		return nil, notFound(err)
	}
	return &manager, nil
}

// FindAll lists every manager, newest first
func (r *ManagerRepository) FindAll(ctx context.Context) ([]*models.Manager, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	managers := []*models.Manager{}
	if err = cursor.All(ctx, &managers); err != nil {
		return nil, err
	}
	return managers, nil
}
