package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/forkjoin/internal/logging"
	"github.com/kolkov/forkjoin/internal/metrics"
)

// MaxThreads bounds the team size.
const MaxThreads = 256

// Worker identifies one member of a running region.
type Worker struct {
	// ID is the worker number, 0..Threads-1. Worker 0 plays the master.
	ID int

	// Threads is the team size.
	Threads int
}

// Team is a fixed-size group of workers that runs parallel regions.
// A Team may run several regions one after another; it holds no goroutines
// between regions.
type Team struct {
	threads int

	// critical serializes Critical sections of every region run by the team.
	critical sync.Mutex

	log     *logging.Logger
	metrics *metrics.Metrics
}

// Option configures a Team.
type Option func(*Team)

// WithLogger logs region fork and join at DEBUG level.
func WithLogger(l *logging.Logger) Option {
	return func(t *Team) { t.log = l.WithComponent("team") }
}

// WithMetrics records regions, chunks and merges.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Team) { t.metrics = m }
}

// NewTeam creates a team of threads workers.
func NewTeam(threads int, opts ...Option) (*Team, error) {
	if threads < 1 || threads > MaxThreads {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidThreads, threads, MaxThreads)
	}

	t := &Team{
		threads: threads,
		log:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Threads returns the team size.
func (t *Team) Threads() int {
	return t.threads
}

// Parallel runs body once on every worker and waits for all of them.
//
// The context passed to body is cancelled as soon as one worker returns an
// error; that first error is returned.
func (t *Team) Parallel(ctx context.Context, body func(ctx context.Context, w Worker) error) error {
	return t.region(ctx, "parallel", body)
}

// Critical runs fn while holding the team's critical-section lock.
func (t *Team) Critical(fn func()) {
	t.critical.Lock()
	defer t.critical.Unlock()
	fn()
}

// region forks the team, runs body on each worker and joins.
func (t *Team) region(ctx context.Context, name string, body func(ctx context.Context, w Worker) error) error {
	log := t.log.WithRegion(name)
	start := time.Now()

	t.metrics.RegionForked()
	log.Debug("fork", "threads", t.threads)

	g, gctx := errgroup.WithContext(ctx)
	for id := range t.threads {
		w := Worker{ID: id, Threads: t.threads}
		g.Go(func() error {
			return body(gctx, w)
		})
	}
	err := g.Wait()

	elapsed := time.Since(start)
	t.metrics.ObserveRegion(name, elapsed)
	if err != nil {
		log.Debug("join", "duration", elapsed, "error", err)
		return fmt.Errorf("%s region: %w", name, err)
	}
	log.Debug("join", "duration", elapsed)
	return nil
}

// each hands chunks from d to w until the iteration space is exhausted or
// ctx is cancelled.
func (t *Team) each(ctx context.Context, d dispatcher, w Worker, fn func(r Range)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, ok := d.next(w)
		if !ok {
			return nil
		}
		t.metrics.ChunkDispatched(d.kind().String())
		fn(r)
	}
}
