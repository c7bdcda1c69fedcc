package bughunt

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/kolkov/forkjoin/internal/parallel"
	"github.com/kolkov/forkjoin/internal/race/detector"
	"github.com/kolkov/forkjoin/internal/race/shadowmem"
	"github.com/kolkov/forkjoin/internal/race/worker"
)

// Variant selects which version of the exercise the auditor replays.
type Variant int

const (
	// VariantBuggy parallelizes the recurrence and shares every variable of
	// the statistics loop.
	VariantBuggy Variant = iota

	// VariantSolution builds sequentially and reduces with private
	// accumulators merged under a critical section.
	VariantSolution
)

// String returns "buggy" or "solution".
func (v Variant) String() string {
	switch v {
	case VariantBuggy:
		return "buggy"
	case VariantSolution:
		return "solution"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant accepts "buggy" or "solution".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buggy":
		return VariantBuggy, nil
	case "solution":
		return VariantSolution, nil
	default:
		return 0, &ValidationError{Field: "variant", Value: s, Err: ErrUsage}
	}
}

// Bug is one of the five defects of the broken exercise.
type Bug int

const (
	// BugLoopCarried: the recurrence loop runs in parallel although each
	// iteration reads the previous element.
	BugLoopCarried Bug = iota + 1
	// BugSharedSum: every worker updates the shared sum.
	BugSharedSum
	// BugSharedTemp: the scratch variable temp is shared instead of private.
	BugSharedTemp
	// BugEvenCount: every worker increments the shared even count.
	BugEvenCount
	// BugMinMax: every worker compares and updates the shared min and max.
	BugMinMax
)

var bugInfo = map[Bug]struct{ what, fix string }{
	BugLoopCarried: {"loop-carried dependency on array[i]", "compute the recurrence sequentially"},
	BugSharedSum:   {"unprotected update of shared sum", "sum into a private accumulator and merge once"},
	BugSharedTemp:  {"temp is shared by every worker", "make temp private to each worker"},
	BugEvenCount:   {"unprotected increment of shared even_count", "count into a private accumulator and merge once"},
	BugMinMax:      {"unprotected compare-and-update of min_val/max_val", "track min and max privately and merge once"},
}

// String renders "Bug 2 (unprotected update of shared sum)".
func (b Bug) String() string {
	info, ok := bugInfo[b]
	if !ok {
		return fmt.Sprintf("Bug %d", int(b))
	}
	return fmt.Sprintf("Bug %d (%s)", int(b), info.what)
}

// Fix describes how the solution removes the bug.
func (b Bug) Fix() string {
	return bugInfo[b].fix
}

// bugFor maps a raced variable to the bug that causes the race.
func bugFor(loc shadowmem.Loc) (Bug, bool) {
	switch loc.Name {
	case "array":
		return BugLoopCarried, true
	case "sum":
		return BugSharedSum, true
	case "temp":
		return BugSharedTemp, true
	case "even_count":
		return BugEvenCount, true
	case "min_val", "max_val":
		return BugMinMax, true
	default:
		return 0, false
	}
}

// AuditResult is the outcome of one replay.
type AuditResult struct {
	Variant Variant
	N       int
	Threads int

	// Races is the number of unique races; Reports holds them in detection
	// order.
	Races   int
	Reports []*detector.RaceReport

	// Bugs are the distinct bugs the races point to, in ascending order.
	Bugs []Bug

	// Stats counts the replayed accesses and read-tracking transitions.
	Stats detector.PromotionStats

	// Locations is the number of distinct variables and elements touched.
	Locations int
}

// Clean reports whether the replay found no races.
func (r *AuditResult) Clean() bool {
	return r.Races == 0
}

// Audit replays the chosen variant for n elements and threads workers
// through a happens-before detector.
//
// The replay runs on the calling goroutine. Worker 0 is the controlling
// thread and team members are workers 1..threads; their loop iterations are
// interleaved round-robin, so no real data race is executed. With a single
// member there is nobody to race with and even the buggy variant is clean.
func Audit(n, threads int, variant Variant, opts ...detector.Option) (*AuditResult, error) {
	if n < MinElements || n > MaxElements {
		return nil, &ValidationError{Field: "n", Value: n, Err: ErrRange}
	}
	if threads < 1 || threads > parallel.MaxThreads {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", parallel.ErrInvalidThreads, threads, parallel.MaxThreads)
	}

	seq, err := Build(n)
	if err != nil {
		return nil, err
	}

	r := &replay{
		d:       detector.NewDetector(opts...),
		master:  worker.Alloc(0),
		seq:     seq,
		threads: threads,
	}

	switch variant {
	case VariantBuggy:
		r.buggyBuild()
		r.buggyReduce()
	case VariantSolution:
		r.sequentialBuild()
		r.privateReduce()
	default:
		return nil, &ValidationError{Field: "variant", Value: variant, Err: ErrUsage}
	}
	if r.err != nil {
		return nil, r.err
	}

	res := &AuditResult{
		Variant:   variant,
		N:         n,
		Threads:   threads,
		Races:     r.d.RacesDetected(),
		Reports:   r.d.Reports(),
		Stats:     r.d.GetPromotionStats(),
		Locations: len(r.d.Locs()),
	}
	for _, rep := range res.Reports {
		if bug, ok := bugFor(rep.Current.Loc); ok && !slices.Contains(res.Bugs, bug) {
			res.Bugs = append(res.Bugs, bug)
		}
	}
	slices.Sort(res.Bugs)
	return res, nil
}

// WriteAudit prints a summary of res: one line per diagnosed bug with its
// fix, or a clean bill.
func WriteAudit(w io.Writer, res *AuditResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Audit of %s variant: n=%d, threads=%d\n", res.Variant, res.N, res.Threads)
	fmt.Fprintf(&b, "Accesses checked: %d reads, %d writes on %d locations (%d read-clock promotions, %d demotions)\n",
		res.Stats.TotalReads, res.Stats.TotalWrites, res.Locations, res.Stats.Promotions, res.Stats.Demotions)
	if res.Clean() {
		b.WriteString("No data races found.\n")
	} else {
		fmt.Fprintf(&b, "Data races found: %d\n", res.Races)
		for _, bug := range res.Bugs {
			fmt.Fprintf(&b, "  %s\n      fix: %s\n", bug, bug.Fix())
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

// replay drives the detector through one variant of the exercise.
type replay struct {
	d       *detector.Detector
	master  *worker.Context
	members []*worker.Context
	seq     Sequence
	threads int

	// err is the first barrier that did not drain.
	err error
}

// fork starts a region: the first one spawns the members, later ones wake
// the same members again.
func (r *replay) fork(barrier string) {
	if r.members == nil {
		r.members = make([]*worker.Context, r.threads)
		for w := range r.members {
			//nolint:gosec // G115: threads <= parallel.MaxThreads.
			r.members[w] = r.d.OnFork(r.master, uint16(w+1))
		}
	} else {
		for _, m := range r.members {
			r.d.OnWake(r.master, m)
		}
	}
	r.d.OnBarrierAdd(barrier, r.threads)
}

// join ends a region at barrier.
func (r *replay) join(barrier string) {
	for _, m := range r.members {
		r.d.OnBarrierDone(barrier, m)
	}
	r.d.OnBarrierWait(barrier, r.master)
	if p := r.d.BarrierPending(barrier); p != 0 && r.err == nil {
		r.err = fmt.Errorf("barrier %s: %d members still pending after join", barrier, p)
	}
}

// interleave runs body for every planned iteration, one iteration per member
// in turn. offset is added to each planned index.
func (r *replay) interleave(plan [][]parallel.Range, offset int, body func(ctx *worker.Context, i int)) {
	iters := make([][]int, len(plan))
	for w, ranges := range plan {
		for _, rg := range ranges {
			for i := rg.Start; i < rg.End; i++ {
				iters[w] = append(iters[w], i+offset)
			}
		}
	}

	for step := 0; ; step++ {
		progressed := false
		for w, list := range iters {
			if step < len(list) {
				body(r.members[w], list[step])
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
}

// buggyBuild runs the recurrence as a parallel loop with schedule(static,1).
func (r *replay) buggyBuild() {
	n := len(r.seq)
	r.d.OnWrite(shadowmem.Index("array", 0), r.master)

	r.fork("build")
	plan := parallel.Plan(n-1, r.threads, parallel.Schedule{Kind: parallel.Static, Chunk: 1})
	r.interleave(plan, 1, func(ctx *worker.Context, i int) {
		r.d.OnRead(shadowmem.Index("array", i-1), ctx)
		r.d.OnWrite(shadowmem.Index("array", i), ctx)
	})
	r.join("build")
}

// sequentialBuild runs the recurrence on the controlling thread.
func (r *replay) sequentialBuild() {
	r.d.OnWrite(shadowmem.Index("array", 0), r.master)
	for i := 1; i < len(r.seq); i++ {
		r.d.OnRead(shadowmem.Index("array", i-1), r.master)
		r.d.OnWrite(shadowmem.Index("array", i), r.master)
	}
}

var statsVars = []string{"sum", "min_val", "max_val", "even_count"}

// initStats writes the shared result variables before the region.
func (r *replay) initStats() {
	for _, name := range statsVars {
		r.d.OnWrite(shadowmem.Scalar(name), r.master)
	}
}

// readStats reads the shared results after the join, as the report does.
func (r *replay) readStats() {
	for _, name := range statsVars {
		r.d.OnRead(shadowmem.Scalar(name), r.master)
	}
}

// buggyReduce runs the statistics loop with everything shared. The
// branches follow the values a serial interleaving produces.
func (r *replay) buggyReduce() {
	r.initStats()
	sum, temp := shadowmem.Scalar("sum"), shadowmem.Scalar("temp")
	minVal, maxVal := shadowmem.Scalar("min_val"), shadowmem.Scalar("max_val")
	evenCount := shadowmem.Scalar("even_count")
	cur := EmptyAggregate()

	r.fork("reduce")
	plan := parallel.Plan(len(r.seq), r.threads, parallel.Schedule{})
	r.interleave(plan, 0, func(ctx *worker.Context, i int) {
		x := r.seq[i]

		// temp = array[i]
		r.d.OnRead(shadowmem.Index("array", i), ctx)
		r.d.OnWrite(temp, ctx)

		// sum += temp
		r.d.OnRead(temp, ctx)
		r.d.OnRead(sum, ctx)
		r.d.OnWrite(sum, ctx)

		// if temp < min_val { min_val = temp }
		r.d.OnRead(temp, ctx)
		r.d.OnRead(minVal, ctx)
		if cur.Count == 0 || x < cur.Min {
			r.d.OnWrite(minVal, ctx)
		}

		// if temp > max_val { max_val = temp }
		r.d.OnRead(temp, ctx)
		r.d.OnRead(maxVal, ctx)
		if x > cur.Max {
			r.d.OnWrite(maxVal, ctx)
		}

		// if temp % 2 == 0 { even_count++ }
		r.d.OnRead(temp, ctx)
		if x%2 == 0 {
			r.d.OnRead(evenCount, ctx)
			r.d.OnWrite(evenCount, ctx)
		}

		cur = cur.Add(x)
	})
	r.join("reduce")
	r.readStats()
}

// privateReduce runs the statistics loop with private temp and accumulators,
// merging each worker's partial results inside the critical section.
func (r *replay) privateReduce() {
	r.initStats()

	r.fork("reduce")
	for _, m := range r.members {
		for _, name := range statsVars {
			r.d.OnWrite(shadowmem.Private(name, m.TID), m)
		}
	}

	plan := parallel.Plan(len(r.seq), r.threads, parallel.Schedule{})
	r.interleave(plan, 0, func(ctx *worker.Context, i int) {
		temp := shadowmem.Private("temp", ctx.TID)
		r.d.OnRead(shadowmem.Index("array", i), ctx)
		r.d.OnWrite(temp, ctx)

		for _, name := range statsVars {
			acc := shadowmem.Private(name, ctx.TID)
			r.d.OnRead(temp, ctx)
			r.d.OnRead(acc, ctx)
			r.d.OnWrite(acc, ctx)
		}
	})

	for _, m := range r.members {
		r.d.OnAcquire("critical", m)
		for _, name := range statsVars {
			r.d.OnRead(shadowmem.Private(name, m.TID), m)
			r.d.OnRead(shadowmem.Scalar(name), m)
			r.d.OnWrite(shadowmem.Scalar(name), m)
		}
		r.d.OnRelease("critical", m)
	}
	r.join("reduce")
	r.readStats()
}
