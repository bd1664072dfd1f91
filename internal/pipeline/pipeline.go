package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/database"
	"market-value-dashboard/internal/dataset"
	"market-value-dashboard/internal/metrics"
	"market-value-dashboard/internal/players"
	"market-value-dashboard/internal/source"
)

// Pipeline runs the one-time startup load: fetch, decode, join, and record
// the load in the snapshot catalog.
type Pipeline struct {
	logger  *zap.Logger
	cfg     *config.Config
	loader  *dataset.Loader
	db      *gorm.DB
	metrics *metrics.Manager
}

// New creates a pipeline. db and m may be nil.
func New(logger *zap.Logger, cfg *config.Config, fetcher source.FetcherInterface, db *gorm.DB, m *metrics.Manager) *Pipeline {
	return &Pipeline{
		logger:  logger,
		cfg:     cfg,
		loader:  dataset.NewLoader(fetcher, logger, m),
		db:      db,
		metrics: m,
	}
}

// Result is what a successful run produces.
type Result struct {
	Store  *players.Store
	LoadID string
	Tables *dataset.Tables
}

// Run loads the sources and builds the store. Any source or schema failure
// is returned as is; there is no partial result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	p.logger.Info("Loading player datasets...")

	tables, err := p.loader.Load(ctx, p.cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("could not load datasets: %w", err)
	}

	store := players.JoinTables(tables)
	took := time.Since(start)
	p.metrics.SetRecordsLoaded(store.Len(), took)

	var loadID string
	if p.db != nil {
		loadID, err = database.RecordLoad(p.db, tables.Snapshots)
		if err != nil {
			// The store is usable without the catalog.
			p.logger.Error("Failed to record load in catalog", zap.Error(err))
		}
	}

	p.logger.Info("Player datasets loaded",
		zap.String("load_id", loadID),
		zap.Int("predictions", len(tables.Predictions.Rows)),
		zap.Int("history", len(tables.History.Rows)),
		zap.Int("profiles", len(tables.Profiles.Rows)),
		zap.Int("records", store.Len()),
		zap.Int("named_records", len(store.Names())),
		zap.Duration("took", took),
	)

	return &Result{Store: store, LoadID: loadID, Tables: tables}, nil
}
