// Package advisor owns the advisor state a host process serves from: the
// battle source, the catalog, and the current snapshot of tables and query
// engines built from them.
//
// A snapshot is immutable. Reload builds a complete new snapshot and swaps
// it in atomically, so request handlers holding the previous one keep a
// consistent view until they finish.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/recommendations"
	"github.com/ramonehamilton/draft-advisor/internal/synergy"
)

// Snapshot is one fully built view of the corpus.
type Snapshot struct {
	Version  uint64
	LoadedAt time.Time
	Source   string
	Records  int

	Tables  *aggregate.Tables
	Synergy *synergy.Engine
	Scorer  *recommendations.Scorer
	Catalog *battle.Catalog
}

// NewSnapshot aggregates records and wires the query engines around them.
func NewSnapshot(records []battle.Record, catalog *battle.Catalog, logger *slog.Logger) *Snapshot {
	if catalog == nil {
		catalog = &battle.Catalog{}
	}
	tables := aggregate.Build(records, logger)
	return &Snapshot{
		LoadedAt: time.Now(),
		Records:  len(records),
		Tables:   tables,
		Synergy:  synergy.NewEngine(tables),
		Scorer:   recommendations.NewScorer(tables),
		Catalog:  catalog,
	}
}

// Service serves the current snapshot and rebuilds it on demand.
type Service struct {
	source  battle.Source
	catalog *battle.Catalog
	logger  *slog.Logger

	current atomic.Pointer[Snapshot]
	version atomic.Uint64

	reloadMu  sync.Mutex
	mu        sync.RWMutex
	listeners []func(*Snapshot)
}

// New creates a service and loads the first snapshot from source.
func New(ctx context.Context, source battle.Source, catalog *battle.Catalog, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		source:  source,
		catalog: catalog,
		logger:  logger,
	}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the snapshot to serve from. It never returns nil once
// New has succeeded.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// Source returns the name of the battle source.
func (s *Service) Source() string {
	return s.source.SourceName()
}

// Reload rebuilds the snapshot from the source and swaps it in. On error
// the previous snapshot stays current.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load battles from %s: %w", s.source.SourceName(), err)
	}

	snap := NewSnapshot(records, s.catalog, s.logger)
	snap.Source = s.source.SourceName()
	snap.Version = s.version.Add(1)
	s.current.Store(snap)

	s.logger.Info("advisor snapshot ready",
		"version", snap.Version,
		"source", snap.Source,
		"battles", snap.Tables.Summary().Battles,
		"skipped", snap.Tables.Summary().Skipped,
		"elapsed", time.Since(start))

	s.notify(snap)
	return snap, nil
}

// OnReload registers fn to run after every successful reload.
func (s *Service) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(snap *Snapshot) {
	s.mu.RLock()
	listeners := append(([]func(*Snapshot))(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
