// Package syncer copies the upstream launch dataset into the launch table.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/launchsync/launchsync/pkg/launch"
	"github.com/launchsync/launchsync/pkg/storage"
)

// Fetcher is an abstraction for the upstream provider (helpful for testing)
type Fetcher interface {
	FetchLaunches(ctx context.Context) ([]string, error)
}

// Result is the outcome of a sync run
type Result struct {
	Saved   int    `json:"saved"`
	Table   string `json:"table"`
	Skipped int    `json:"-"`
	RunID   string `json:"-"`
}

// Syncer fetches, normalizes and upserts launches
type Syncer struct {
	src Fetcher
	dst storage.Upserter
	now func() time.Time
	log *slog.Logger
}

// Option configures a Syncer
type Option func(*Syncer)

// WithClock sets the time used for launches without a timestamp
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) {
		s.log = l
	}
}

// NewSyncer returns a new syncer
func NewSyncer(f Fetcher, u storage.Upserter, opts ...Option) *Syncer {

	s := &Syncer{src: f, dst: u, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sync runs one full sync. A fetch failure returns the fetch error with
// nothing written; a write failure returns a *storage.WriteError.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {

	runID := uuid.NewString()
	log := s.log.With("run_id", runID, "table", s.dst.Name())

	docs, err := s.src.FetchLaunches(ctx)
	if err != nil {
		log.Error("could not fetch launches", "error", err)
		return Result{}, err
	}

	items, skipped := launch.NormalizeAll(docs, s.now())
	if skipped > 0 {
		log.Debug("skipped launches without identifier", "count", skipped)
	}

	err = s.dst.BatchUpsert(ctx, items)
	if err != nil {
		var we *storage.WriteError
		if !errors.As(err, &we) {
			err = &storage.WriteError{Err: err}
		}
		log.Error("could not write launches", "error", err)
		return Result{}, err
	}

	res := Result{
		Saved:   len(items),
		Table:   s.dst.Name(),
		Skipped: skipped,
		RunID:   runID,
	}
	log.Info("sync complete", "fetched", len(docs), "saved", res.Saved, "skipped", skipped)
	return res, nil
}
