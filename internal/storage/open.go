// Package storage opens the configured repository driver.
package storage

import (
	"context"
	"fmt"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	firestorerepo "github.com/ArowuTest/viral-lottery-backend/internal/repositories/firestore"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/viral-lottery-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/viral-lottery-backend/pkg/firestoredb"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/mongodb"
)

// Open connects the configured storage driver and returns the store with its close func
func Open(ctx context.Context, cfg *config.Config) (*repositories.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			logx.L().Warnw("Failed to ensure indexes", "error", err)
		}
		return mongorepo.NewStore(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logx.L().Errorw("Error disconnecting from MongoDB", "error", err)
			}
		}, nil

	case config.StoreFirestore:
		client, err := firestoredb.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return firestorerepo.NewStore(client), func() { _ = client.Close() }, nil

	case config.StoreMemory:
		logx.L().Warnw("Using in-memory store, data is lost on restart")
		return memory.NewStore(memory.NewDB()), func() {}, nil
	}
	return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.Store.Driver)
}
