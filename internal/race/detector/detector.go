package detector

import (
	"io"
	"sync"

	"github.com/kolkov/forkjoin/internal/logging"
	"github.com/kolkov/forkjoin/internal/metrics"
	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/shadowmem"
	"github.com/kolkov/forkjoin/internal/race/syncshadow"
	"github.com/kolkov/forkjoin/internal/race/worker"
)

// PromotionStats tracks how often read tracking had to leave the epoch fast path.
type PromotionStats struct {
	TotalReads    uint64 // Total read operations.
	TotalWrites   uint64 // Total write operations.
	Promotions    uint64 // Epoch → read clock promotions.
	Demotions     uint64 // Read clock → epoch demotions (on write).
	FastPathReads uint64 // Reads handled with the read epoch.
	SlowPathReads uint64 // Reads handled with the read clock.
}

// Detector checks replayed accesses for happens-before violations.
type Detector struct {
	shadowMemory *shadowmem.ShadowMemory
	syncShadow   *syncshadow.SyncShadow

	// reportedRaces holds deduplication keys of races already recorded.
	reportedRaces sync.Map

	out     io.Writer
	log     *logging.Logger
	metrics *metrics.Metrics

	// mu protects the fields below.
	mu            sync.Mutex
	racesDetected int
	reports       []*RaceReport
	stats         PromotionStats
}

// Option configures a Detector.
type Option func(*Detector)

// WithOutput writes every new race report to w as it is found.
func WithOutput(w io.Writer) Option {
	return func(d *Detector) { d.out = w }
}

// WithLogger logs each new race at DEBUG level. Reports themselves go to the
// WithOutput writer.
func WithLogger(l *logging.Logger) Option {
	return func(d *Detector) { d.log = l.WithComponent("detector") }
}

// WithMetrics counts each new race by kind.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Detector) { d.metrics = m }
}

// NewDetector creates a detector with empty shadow state.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		shadowMemory: shadowmem.NewShadowMemory(),
		syncShadow:   syncshadow.NewSyncShadow(),
		log:          logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnWrite handles a write of loc by ctx.
//
//  1. [SAME EPOCH] a repeated write in the same epoch cannot race
//  2. write-write: the previous write must happen-before this one
//  3. read-write: every recorded read must happen-before this one
//  4. record the write, drop read history, advance the clock
//
// The write is recorded even when a race was reported, so later accesses are
// compared against the latest writer.
func (d *Detector) OnWrite(loc shadowmem.Loc, ctx *worker.Context) {
	vs := d.shadowMemory.GetOrCreate(loc)
	currentEpoch := ctx.GetEpoch()

	if vs.W.Same(currentEpoch) {
		return
	}

	if vs.W != 0 && !vs.W.HappensBefore(ctx.C) {
		d.reportRace(RaceTypeWriteWrite, loc, vs.W, currentEpoch)
	}

	if prevRead := vs.ConflictingRead(ctx.C); prevRead != 0 {
		d.reportRace(RaceTypeReadWrite, loc, prevRead, currentEpoch)
	}

	vs.W = currentEpoch

	wasPromoted := vs.IsPromoted()
	vs.Demote()

	d.mu.Lock()
	d.stats.TotalWrites++
	if wasPromoted {
		d.stats.Demotions++
	}
	d.mu.Unlock()

	ctx.IncrementClock()
}

// OnRead handles a read of loc by ctx.
//
// While reads are totally ordered a single read epoch is kept. A read that
// is concurrent with the recorded one promotes the cell to a read clock.
func (d *Detector) OnRead(loc shadowmem.Loc, ctx *worker.Context) {
	vs := d.shadowMemory.GetOrCreate(loc)
	currentEpoch := ctx.GetEpoch()

	if vs.W != 0 && !vs.W.HappensBefore(ctx.C) {
		d.reportRace(RaceTypeWriteRead, loc, vs.W, currentEpoch)
	}

	if vs.IsPromoted() {
		d.mu.Lock()
		d.stats.TotalReads++
		d.stats.SlowPathReads++
		d.mu.Unlock()

		vs.AddReader(currentEpoch)
		ctx.IncrementClock()
		return
	}

	d.mu.Lock()
	d.stats.TotalReads++
	d.stats.FastPathReads++
	d.mu.Unlock()

	existing := vs.GetReadEpoch()
	switch {
	case existing.Same(currentEpoch):
		return
	case existing == 0, existing.TID() == ctx.TID, existing.HappensBefore(ctx.C):
		vs.SetReadEpoch(currentEpoch)
	default:
		vs.PromoteToReadClock(currentEpoch)
		d.mu.Lock()
		d.stats.Promotions++
		d.mu.Unlock()
	}
	ctx.IncrementClock()
}

// OnFork spawns team member tid from parent and advances the parent's clock.
func (d *Detector) OnFork(parent *worker.Context, tid uint16) *worker.Context {
	child := worker.Fork(parent, tid)
	parent.IncrementClock()
	return child
}

// OnWake hands the next region to a pooled team member: everything the
// parent did so far happens-before what member does next.
func (d *Detector) OnWake(parent, member *worker.Context) {
	member.C.Join(parent.C)
	member.IncrementClock()
	parent.IncrementClock()
}

// OnAcquire handles entry into the critical section called name:
// Ct := Ct ⊔ Lm.
func (d *Detector) OnAcquire(name string, ctx *worker.Context) {
	if rc := d.syncShadow.GetOrCreate(name).GetReleaseClock(); rc != nil {
		ctx.C.Join(rc)
	}
	ctx.IncrementClock()
}

// OnRelease handles exit from the critical section called name: Lm := Ct.
func (d *Detector) OnRelease(name string, ctx *worker.Context) {
	d.syncShadow.GetOrCreate(name).SetReleaseClock(ctx.C)
	ctx.IncrementClock()
}

// OnBarrierAdd registers n members with the barrier called name.
func (d *Detector) OnBarrierAdd(name string, n int) {
	d.syncShadow.GetOrCreate(name).BarrierAdd(n)
}

// OnBarrierDone records that ctx finished its share of the region.
func (d *Detector) OnBarrierDone(name string, ctx *worker.Context) {
	d.syncShadow.GetOrCreate(name).BarrierDone(ctx.C)
	ctx.IncrementClock()
}

// OnBarrierWait joins every finished member's history into ctx.
func (d *Detector) OnBarrierWait(name string, ctx *worker.Context) {
	if done := d.syncShadow.GetOrCreate(name).GetDoneClock(); done != nil {
		ctx.C.Join(done)
	}
	ctx.IncrementClock()
}

// BarrierPending returns how many members registered with the barrier called
// name have not finished yet.
func (d *Detector) BarrierPending(name string) int {
	return d.syncShadow.GetOrCreate(name).Pending()
}

// RacesDetected returns the number of unique races recorded.
func (d *Detector) RacesDetected() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.racesDetected
}

// Reports returns the unique race reports in detection order.
func (d *Detector) Reports() []*RaceReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*RaceReport, len(d.reports))
	copy(out, d.reports)
	return out
}

// Locs lists every location the replay touched.
func (d *Detector) Locs() []shadowmem.Loc {
	return d.shadowMemory.Locs()
}

// GetPromotionStats returns a snapshot of the read-tracking statistics.
func (d *Detector) GetPromotionStats() PromotionStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// reportRace records a race unless the same kind, location and worker pair
// was already reported.
func (d *Detector) reportRace(raceType string, loc shadowmem.Loc, prevEpoch, currEpoch epoch.Epoch) {
	report := NewRaceReport(raceType, loc, prevEpoch, currEpoch)

	if _, alreadyReported := d.reportedRaces.LoadOrStore(report.DeduplicationKey, struct{}{}); alreadyReported {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.racesDetected++
	d.reports = append(d.reports, report)

	if d.out != nil {
		report.Format(d.out)
	}
	if d.log.Enabled(logging.LevelDebug) {
		d.log.Debug("data race",
			"kind", raceType,
			"loc", loc.String(),
			"worker", report.Current.Worker,
			"previous_worker", report.Previous.Worker,
		)
	}
	d.metrics.RaceFlagged(raceType)
}
