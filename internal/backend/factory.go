// Package backend opens the transaction store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/moneymanager/internal/config"
	"github.com/MrJamesThe3rd/moneymanager/internal/database"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction/mongostore"
	txStore "github.com/MrJamesThe3rd/moneymanager/internal/transaction/store"
)

// Backend is an opened repository plus the function releasing its connections.
type Backend struct {
	Repository transaction.Repository
	Close      func(ctx context.Context) error
}

// Open connects to the configured store and prepares its schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	case config.StorePostgres:
		return openPostgres(cfg)
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func openPostgres(cfg *config.Config) (*Backend, error) {
	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	slog.Info("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Backend{
		Repository: txStore.New(db),
		Close:      func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, db, err := database.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}

	store := mongostore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	slog.Info("using mongo store", "database", cfg.Mongo.Database)

	return &Backend{
		Repository: store,
		Close:      client.Disconnect,
	}, nil
}
