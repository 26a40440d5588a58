// Package dataset holds the price rows currently served. Rows are replaced
// wholesale on every successful load and never mutated in place.
package dataset

import (
	"context"
	"sync"
	"time"

	"TradeView/internal/model"

	"github.com/sirupsen/logrus"
)

// Snapshot is a consistent view of the store.
type Snapshot struct {
	Rows     []model.PriceRow
	Version  uint64
	Loaded   bool
	LoadedAt time.Time
	LastErr  error
}

// Store guards the current row set.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store { return &Store{} }

// Snapshot returns the current state. The returned Rows must be treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace installs rows as the new data set and clears any recorded error.
func (s *Store) Replace(rows []model.PriceRow) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{
		Rows:     rows,
		Version:  s.snap.Version + 1,
		Loaded:   true,
		LoadedAt: time.Now(),
	}
	return s.snap
}

// MarkFailed records a load error and keeps the previous rows.
func (s *Store) MarkFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.LastErr = err
}

// Source produces a fresh row set.
type Source interface {
	Collect(ctx context.Context) ([]model.PriceRow, error)
}

// Loader moves rows from a Source into a Store.
type Loader struct {
	Source Source
	Store  *Store
	Log    logrus.FieldLogger

	mu sync.Mutex
}

func NewLoader(src Source, store *Store, log logrus.FieldLogger) *Loader {
	return &Loader{Source: src, Store: store, Log: log.WithField("component", "loader")}
}

// Load runs one collection. On failure the error is logged and recorded and
// the store keeps whatever it held before (nothing, on the first load).
// Concurrent calls are serialized.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.Source.Collect(ctx)
	if err != nil {
		l.Log.WithError(err).Error("load price data")
		l.Store.MarkFailed(err)
		return err
	}
	snap := l.Store.Replace(rows)
	l.Log.WithFields(logrus.Fields{"rows": len(rows), "version": snap.Version}).Info("price data loaded")
	return nil
}
