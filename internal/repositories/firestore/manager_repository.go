package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
)

var _ repositories.ManagerRepository = (*ManagerRepository)(nil)

// ManagerRepository stores manager accounts in Firestore
type ManagerRepository struct {
	client *firestore.Client
}

// NewManagerRepository creates a new ManagerRepository
func NewManagerRepository(client *firestore.Client) *ManagerRepository {
	return &ManagerRepository{client: client}
}

func (r *ManagerRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(managersCollection)
}

// Create stores a manager. Email uniqueness is checked with a query first,
// which leaves a small window for concurrent sign-ups with the same email.
func (r *ManagerRepository) Create(ctx context.Context, manager *models.Manager) error {
	manager.Email = strings.ToLower(manager.Email)
	if _, err := r.FindByEmail(ctx, manager.Email); err == nil {
		return repositories.ErrDuplicate
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	ref := r.collection().NewDoc()
	manager.ID = ref.ID
	manager.CreatedAt = time.Now()
	manager.UpdatedAt = manager.CreatedAt
	_, err := ref.Create(ctx, manager)
	return err
}

func (r *ManagerRepository) FindByID(ctx context.Context, id string) (*models.Manager, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var manager models.Manager
	if err := snap.DataTo(&manager); err != nil {
		return nil, err
	}
	manager.ID = snap.Ref.ID
	return &manager, nil
}

func (r *ManagerRepository) FindByEmail(ctx context.Context, email string) (*models.Manager, error) {
	it := r.collection().Where("email", "==", strings.ToLower(email)).Limit(1).Documents(ctx)
	found, err := readAll(it, func(m *models.Manager, id string) { m.ID = id })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, repositories.ErrNotFound
	}
	return found[0], nil
}

func (r *ManagerRepository) FindAll(ctx context.Context) ([]*models.Manager, error) {
	it := r.collection().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return readAll(it, func(m *models.Manager, id string) { m.ID = id })
}
