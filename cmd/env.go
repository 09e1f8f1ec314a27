package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/gurlaesthetic/sourcing-cli/internal/analyzer"
	"github.com/gurlaesthetic/sourcing-cli/internal/catalog"
	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/cost"
	"github.com/gurlaesthetic/sourcing-cli/internal/engine"
	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/matcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/sourcing"
	"github.com/gurlaesthetic/sourcing-cli/internal/store"
)

// env holds the assembled pipeline and its store for one command run.
type env struct {
	Store    store.Store
	Registry *catalog.Registry
	Engine   *engine.Engine
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// openStore selects the database backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres", "":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver: %q (valid: postgres, sqlite)", cfg.Store.Driver)
	}
}

// initPipeline assembles the full recommendation pipeline.
func initPipeline(ctx context.Context) (*env, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	f := fetcher.NewHTTP(cfg.Fetch)
	registry := catalog.NewDefaultRegistry(f, cfg.Sourcing.UseLiveSources)
	orch := sourcing.NewOrchestrator(registry, cfg.Sourcing)

	eng := engine.New(
		st,
		analyzer.New(st, cfg.Analyzer),
		matcher.New(),
		orch,
		cost.NewCalculator(cfg.Cost),
		cost.NewProfitEngine(cfg.Profit),
		cfg.Engine,
	)

	return &env{Store: st, Registry: registry, Engine: eng}, nil
}
