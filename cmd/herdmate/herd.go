// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/pdiddy/herdmate/internal/dataset"
	"github.com/pdiddy/herdmate/internal/pairing"
	"github.com/pdiddy/herdmate/internal/secrets"
	"github.com/pdiddy/herdmate/internal/store"
	"github.com/pdiddy/herdmate/pkg/types"
)

// loadHerd reads and normalizes the tables in the configured data directory.
func loadHerd() (*dataset.Herd, error) {
	tables, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("loading data from %s: %w", cfg.DataDir, err)
	}
	return tables.Build(cfg.Allocation.SemenTypes, logger), nil
}

func scoringOptions() pairing.Options {
	return pairing.Options{
		MaxDepth:    cfg.Pedigree.MaxDepth,
		Constraints: cfg.Constraints,
		Strategy: pairing.WeightedAverage{
			SireWeight: cfg.Scoring.SireWeight,
			DamWeight:  cfg.Scoring.DamWeight,
		},
		Panel:   cfg.Scoring.DefectPanel,
		Workers: cfg.Scoring.Workers,
		Logger:  logger,
	}
}

// scoreHerd scores every eligible pairing in h.
func scoreHerd(ctx context.Context, h *dataset.Herd) ([]types.CandidatePairing, error) {
	return pairing.ScoreAll(ctx, pairing.Input{
		Registry:    h.Registry,
		Cows:        h.Cows,
		Bulls:       h.Bulls,
		Inventories: h.Inventory,
		Genotypes:   h.Genotypes,
	}, scoringOptions())
}

// openStore opens the configured plan store, taking a Postgres DSN from
// .secrets/ when the config does not set one.
func openStore(ctx context.Context) (*store.Store, error) {
	sc := cfg.Store
	if sc.Driver == store.DriverPostgres {
		dsn, err := secrets.StoreDSN(sc.DSN, secrets.DefaultDir, logger)
		if err != nil {
			return nil, err
		}
		sc.DSN = dsn
	}
	logger.Debug("opening plan store", "driver", sc.Driver, "dir", sc.Dir)
	return store.Open(ctx, sc)
}
