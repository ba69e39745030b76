// Package refresh runs the full per-game rebuild pipeline in the background:
// fetch upstream data, replace stored rows, mirror to cache, rematerialize
// dictionaries, recompute checksums. The triggering request never waits for
// any of it.
package refresh

import (
	"context"
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/UIGF-org/UIGF-API/internal/fetcher"
	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/store"
)

// ErrAlreadyRunning means a refresh for the game is in flight; concurrent
// refreshes of one game would race destructively on clear+insert.
var ErrAlreadyRunning = errors.New("refresh already running for this game")

type Store interface {
	Clear(ctx context.Context, gameID int) error
	InsertBatch(ctx context.Context, gameID int, mapping map[string]map[string]string) ([]store.Entry, error)
}

type Mirror interface {
	MirrorBatch(ctx context.Context, entries []store.Entry) error
}

type Dictionaries interface {
	BuildAll(ctx context.Context, gameName string) error
}

type Checksums interface {
	Refresh(gameName string) (map[string]string, error)
}

type Orchestrator struct {
	store   Store
	mirror  Mirror
	dict    Dictionaries
	sums    Checksums
	sources map[string]fetcher.Source
	pool    *ants.Pool
	log     *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

func New(s Store, m Mirror, d Dictionaries, c Checksums, sources map[string]fetcher.Source, workers int, log *zap.Logger) (*Orchestrator, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		store:    s,
		mirror:   m,
		dict:     d,
		sums:     c,
		sources:  sources,
		pool:     pool,
		log:      log,
		inflight: make(map[string]bool),
	}, nil
}

// Trigger schedules a background refresh for the game and returns
// immediately. At most one refresh per game runs at a time; a duplicate
// trigger is rejected with ErrAlreadyRunning, not queued.
func (o *Orchestrator) Trigger(gameName string) error {
	src, ok := o.sources[gameName]
	if !ok {
		return game.ErrNotSupported
	}
	gameID, err := game.ID(gameName)
	if err != nil {
		return err
	}

	o.mu.Lock()
	if o.inflight[gameName] {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}
	o.inflight[gameName] = true
	o.mu.Unlock()

	err = o.pool.Submit(func() {
		defer o.release(gameName)
		o.run(gameName, gameID, src)
	})
	if err != nil {
		o.release(gameName)
		return err
	}
	return nil
}

// ScheduleChecksum recomputes a game's checksums in the background; used by
// the checksum read path when the in-memory cache is cold.
func (o *Orchestrator) ScheduleChecksum(gameName string) error {
	return o.pool.Submit(func() {
		if _, err := o.sums.Refresh(gameName); err != nil {
			o.log.Warn("background checksum refresh failed",
				zap.String("game", gameName), zap.Error(err))
		}
	})
}

// Close stops accepting new tasks. In-flight refreshes run to completion:
// there is no mid-task cancellation.
func (o *Orchestrator) Close() {
	o.pool.Release()
}

func (o *Orchestrator) release(gameName string) {
	o.mu.Lock()
	delete(o.inflight, gameName)
	o.mu.Unlock()
}

// run executes the phases strictly in order. Any failure logs and ends the
// task; nothing retries automatically, an operator re-issues the refresh.
func (o *Orchestrator) run(gameName string, gameID int, src fetcher.Source) {
	ctx := context.Background()
	log := o.log.With(zap.String("game", gameName))

	mapping, err := src.Fetch(ctx)
	if err != nil {
		log.Error("fetch upstream data failed", zap.Error(err))
		return
	}
	log.Info("fetched upstream data", zap.Int("items", len(mapping)))

	if err := o.store.Clear(ctx, gameID); err != nil {
		log.Error("clear failed", zap.Error(err))
		return
	}
	entries, err := o.store.InsertBatch(ctx, gameID, mapping)
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return
	}
	log.Info("replaced stored rows", zap.Int("rows", len(entries)))

	// The mirror is best effort: a failed pipeline is logged, never fatal.
	if err := o.mirror.MirrorBatch(ctx, entries); err != nil {
		log.Warn("cache mirror failed", zap.Error(err))
	}

	if err := o.dict.BuildAll(ctx, gameName); err != nil {
		log.Error("dictionary materialization failed", zap.Error(err))
		return
	}
	if _, err := o.sums.Refresh(gameName); err != nil {
		log.Error("checksum refresh failed", zap.Error(err))
		return
	}
	log.Info("refresh finished")
}
