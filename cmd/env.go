package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/compare"
	"github.com/meridian-advisory/renewal-intel/internal/service"
	"github.com/meridian-advisory/renewal-intel/internal/store"
	"github.com/meridian-advisory/renewal-intel/internal/sureify"
)

// env holds the wired collaborators for one command invocation.
type env struct {
	Service *service.Service
	Store   store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close failed", zap.Error(err))
		}
	}
}

// initEnv opens the store, picks the data source (offline mock when no base
// URL is configured), and wires the service.
func initEnv(ctx context.Context) (*env, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	var src sureify.Client
	if cfg.Sureify.BaseURL != "" {
		src = sureify.NewClient(cfg.Sureify)
	} else {
		zap.L().Info("no sureify base URL configured, using offline data")
		src = sureify.NewMock()
	}

	var cmp compare.Client
	if cfg.Compare.BaseURL != "" {
		cmp = compare.NewClient(cfg.Compare)
	}

	return &env{
		Service: service.New(*cfg, src, st, cmp),
		Store:   st,
	}, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite", "":
		s, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
