package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/metrics"
	"market-value-dashboard/internal/source"
)

// Snapshot describes one downloaded source.
type Snapshot struct {
	Source     string
	URL        string
	Bytes      int
	Rows       int
	Duplicates int
	SHA256     string
	FetchedAt  time.Time
}

// Tables holds the three decoded sources.
type Tables struct {
	Predictions Table[PredictionRow]
	History     Table[HistoryRow]
	Profiles    Table[ProfileRow]
	Snapshots   []Snapshot
}

// Loader fetches and decodes the three sources.
type Loader struct {
	fetcher source.FetcherInterface
	logger  *zap.Logger
	metrics *metrics.Manager
}

// NewLoader creates a Loader. m may be nil.
func NewLoader(fetcher source.FetcherInterface, logger *zap.Logger, m *metrics.Manager) *Loader {
	return &Loader{fetcher: fetcher, logger: logger.Named("loader"), metrics: m}
}

// Load downloads and decodes predictions, history and profiles, in that
// order. The first failure aborts the load.
func (l *Loader) Load(ctx context.Context, sources config.Sources) (*Tables, error) {
	var tables Tables

	snap, err := l.loadOne(ctx, SourcePredictions, sources.Predictions, func(body []byte) (int, int, error) {
		t, err := DecodePredictions(bytes.NewReader(body))
		tables.Predictions = t
		return len(t.Rows), t.Duplicates, err
	})
	if err != nil {
		return nil, err
	}
	tables.Snapshots = append(tables.Snapshots, snap)

	snap, err = l.loadOne(ctx, SourceHistory, sources.History, func(body []byte) (int, int, error) {
		t, err := DecodeHistory(bytes.NewReader(body))
		tables.History = t
		return len(t.Rows), t.Duplicates, err
	})
	if err != nil {
		return nil, err
	}
	tables.Snapshots = append(tables.Snapshots, snap)

	snap, err = l.loadOne(ctx, SourceProfiles, sources.Profiles, func(body []byte) (int, int, error) {
		t, err := DecodeProfiles(bytes.NewReader(body))
		tables.Profiles = t
		return len(t.Rows), t.Duplicates, err
	})
	if err != nil {
		return nil, err
	}
	tables.Snapshots = append(tables.Snapshots, snap)

	return &tables, nil
}

func (l *Loader) loadOne(ctx context.Context, name, url string, decode func([]byte) (int, int, error)) (Snapshot, error) {
	body, err := l.fetcher.Fetch(ctx, name, url)
	if err != nil {
		return Snapshot{}, &SourceUnavailableError{Source: name, URL: url, Err: err}
	}
	fetchedAt := time.Now().UTC()

	rows, dups, err := decode(body)
	if err != nil {
		l.logger.Error("Failed to decode source", zap.String("source", name), zap.Error(err))
		return Snapshot{}, err
	}
	if dups > 0 {
		l.logger.Warn("Dropped rows with duplicate player ids, first row kept",
			zap.String("source", name),
			zap.Int("duplicates", dups),
		)
	}
	l.metrics.SetSourceRows(name, rows)
	l.logger.Info("Decoded source", zap.String("source", name), zap.Int("rows", rows))

	sum := sha256.Sum256(body)
	return Snapshot{
		Source:     name,
		URL:        url,
		Bytes:      len(body),
		Rows:       rows,
		Duplicates: dups,
		SHA256:     hex.EncodeToString(sum[:]),
		FetchedAt:  fetchedAt,
	}, nil
}
