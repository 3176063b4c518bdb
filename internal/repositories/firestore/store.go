// Package firestore stores campaigns in Cloud Firestore. Participants and
// draws live in sub-collections of their campaign document.
package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	campaignsCollection     = "campaigns"
	participantsCollection  = "leads"
	drawsCollection         = "draws"
	managersCollection      = "managers"
	notificationsCollection = "notifications"
)

// NewStore wires every Firestore repository onto one client
func NewStore(client *firestore.Client) *repositories.Store {
	return &repositories.Store{
		Campaigns:     NewCampaignRepository(client),
		Participants:  NewParticipantRepository(client),
		Draws:         NewDrawRepository(client),
		Managers:      NewManagerRepository(client),
		Notifications: NewNotificationRepository(client),
	}
}

// notFound maps gRPC NotFound onto the repository sentinel
func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return repositories.ErrNotFound
	}
	return err
}

// readAll decodes every document of an iterator, setting ids with setID.
func readAll[T any](it *firestore.DocumentIterator, setID func(*T, string)) ([]*T, error) {
	defer it.Stop()
	out := []*T{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v := new(T)
		if err := snap.DataTo(v); err != nil {
			return nil, err
		}
		setID(v, snap.Ref.ID)
		out = append(out, v)
	}
}

// deleteAll removes every document returned by the iterator
func deleteAll(ctx context.Context, it *firestore.DocumentIterator) error {
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return err
		}
	}
}
