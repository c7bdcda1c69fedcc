package parallel

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Kind selects how loop iterations are distributed.
type Kind int

const (
	// Static assigns iterations before the loop starts. Without a chunk size
	// worker w gets the contiguous block [n*w/T, n*(w+1)/T); with one, chunks
	// are dealt round-robin.
	Static Kind = iota

	// Dynamic hands out chunks (default 1 iteration) to whichever worker
	// asks next.
	Dynamic

	// Guided is Dynamic with chunks that shrink from remaining/T down to the
	// chunk size.
	Guided
)

var kindNames = [...]string{
	Static:  "static",
	Dynamic: "dynamic",
	Guided:  "guided",
}

// String returns the schedule kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Schedule is a schedule kind plus chunk size. The zero value is Static
// without chunking.
type Schedule struct {
	Kind  Kind
	Chunk int
}

// ParseSchedule parses "kind" or "kind,chunk", e.g. "guided" or "static,2".
func ParseSchedule(s string) (Schedule, error) {
	name, chunkStr, hasChunk := strings.Cut(strings.TrimSpace(s), ",")

	var sched Schedule
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static", "":
		sched.Kind = Static
	case "dynamic":
		sched.Kind = Dynamic
	case "guided":
		sched.Kind = Guided
	default:
		return Schedule{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, name)
	}

	if hasChunk {
		chunk, err := strconv.Atoi(strings.TrimSpace(chunkStr))
		if err != nil || chunk < 1 {
			return Schedule{}, fmt.Errorf("%w: chunk %q must be a positive integer", ErrInvalidSchedule, chunkStr)
		}
		sched.Chunk = chunk
	}
	return sched, nil
}

// String renders the schedule in the form ParseSchedule accepts.
func (s Schedule) String() string {
	if s.Chunk == 0 {
		return s.Kind.String()
	}
	return s.Kind.String() + "," + strconv.Itoa(s.Chunk)
}

// Validate reports whether the schedule can be run.
func (s Schedule) Validate() error {
	if s.Kind < Static || s.Kind > Guided {
		return fmt.Errorf("%w: %s", ErrInvalidSchedule, s.Kind)
	}
	if s.Chunk < 0 {
		return fmt.Errorf("%w: negative chunk %d", ErrInvalidSchedule, s.Chunk)
	}
	return nil
}

// chunkSize returns the effective chunk size; 0 means "one block per worker"
// and only happens for Static.
func (s Schedule) chunkSize() int {
	if s.Chunk == 0 && s.Kind != Static {
		return 1
	}
	return s.Chunk
}

// Range is the half-open iteration interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of iterations in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Plan returns the chunks each worker runs for n iterations.
//
// Static plans are exactly what a region executes. Dynamic and Guided plans
// show the claims made in round-robin order, which is one of the orders a
// real run can produce. threads below 1 is treated as 1.
func Plan(n, threads int, sched Schedule) [][]Range {
	threads = max(threads, 1)
	plan := make([][]Range, threads)

	if sched.Kind == Static {
		for w := range threads {
			plan[w] = staticRanges(n, threads, sched.chunkSize(), w)
		}
		return plan
	}

	claim := 0
	for start := 0; start < n; claim++ {
		size := claimSize(n-start, threads, sched)
		end := min(start+size, n)
		plan[claim%threads] = append(plan[claim%threads], Range{Start: start, End: end})
		start = end
	}
	return plan
}

// staticRanges lists the chunks worker w owns under a static schedule.
func staticRanges(n, threads, chunk, w int) []Range {
	if n <= 0 {
		return nil
	}
	if chunk == 0 {
		start, end := n*w/threads, n*(w+1)/threads
		if start == end {
			return nil
		}
		return []Range{{Start: start, End: end}}
	}

	var ranges []Range
	for start := w * chunk; start < n; start += threads * chunk {
		ranges = append(ranges, Range{Start: start, End: min(start+chunk, n)})
	}
	return ranges
}

// claimSize is the size of the next dynamic or guided chunk when remaining
// iterations are left.
func claimSize(remaining, threads int, sched Schedule) int {
	chunk := sched.chunkSize()
	if sched.Kind == Guided {
		return max(remaining/threads, chunk)
	}
	return chunk
}

// dispatcher hands chunks of one loop to the workers of a region.
type dispatcher interface {
	next(w Worker) (Range, bool)
	kind() Kind
}

func newDispatcher(n, threads int, sched Schedule) dispatcher {
	switch sched.Kind {
	case Dynamic:
		return &dynamicDispatcher{n: int64(n), chunk: int64(sched.chunkSize())}
	case Guided:
		return &guidedDispatcher{n: int64(n), threads: int64(threads), sched: sched}
	default:
		d := &staticDispatcher{
			ranges: make([][]Range, threads),
			pos:    make([]int, threads),
		}
		for w := range threads {
			d.ranges[w] = staticRanges(n, threads, sched.chunkSize(), w)
		}
		return d
	}
}

// staticDispatcher precomputes every worker's chunks. Worker w only touches
// ranges[w] and pos[w].
type staticDispatcher struct {
	ranges [][]Range
	pos    []int
}

func (d *staticDispatcher) next(w Worker) (Range, bool) {
	if d.pos[w.ID] >= len(d.ranges[w.ID]) {
		return Range{}, false
	}
	r := d.ranges[w.ID][d.pos[w.ID]]
	d.pos[w.ID]++
	return r, true
}

func (d *staticDispatcher) kind() Kind { return Static }

type dynamicDispatcher struct {
	n, chunk int64
	claimed  atomic.Int64
}

func (d *dynamicDispatcher) next(Worker) (Range, bool) {
	end := d.claimed.Add(d.chunk)
	start := end - d.chunk
	if start >= d.n {
		return Range{}, false
	}
	return Range{Start: int(start), End: int(min(end, d.n))}, true
}

func (d *dynamicDispatcher) kind() Kind { return Dynamic }

type guidedDispatcher struct {
	n, threads int64
	sched      Schedule
	claimed    atomic.Int64
}

func (d *guidedDispatcher) next(Worker) (Range, bool) {
	for {
		start := d.claimed.Load()
		if start >= d.n {
			return Range{}, false
		}
		size := int64(claimSize(int(d.n-start), int(d.threads), d.sched))
		end := min(start+size, d.n)
		if d.claimed.CompareAndSwap(start, end) {
			return Range{Start: int(start), End: int(end)}, true
		}
	}
}

func (d *guidedDispatcher) kind() Kind { return Guided }
