package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/leina-lyt/inference-dashboard/internal/store"
)

// initStore opens the configured snapshot store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
