package lessons

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kolkov/forkjoin/internal/parallel"
)

// MaxUpper is the largest upper bound a lesson accepts. The scheduling
// lesson records one assignment per addend.
const MaxUpper = 1 << 26

// ErrInvalidBound is returned for an upper bound outside 0..MaxUpper.
var ErrInvalidBound = errors.New("upper bound out of range")

// SumResult compares a computed sum of 1..Upper with the closed form.
type SumResult struct {
	Upper    int
	Expected uint64
	Computed uint64
}

// Correct reports whether the computed sum matches the closed form.
func (r SumResult) Correct() bool {
	return r.Expected == r.Computed
}

// Bounds is the inclusive range [Start, End] of addends one worker summed.
// Start > End means the worker had nothing to do.
type Bounds struct {
	Worker int
	Start  int
	End    int
}

// Assignment records which worker ran one loop iteration.
type Assignment struct {
	Iteration int
	Worker    int
}

// expectedSum returns upper(upper+1)/2 modulo 2^64.
func expectedSum(upper int) uint64 {
	k := uint64(upper)
	if k%2 == 0 {
		return (k / 2) * (k + 1)
	}
	return k * ((k + 1) / 2)
}

func checkUpper(upper int) error {
	if upper < 0 || upper > MaxUpper {
		return fmt.Errorf("%w: %d (must be 0..%d)", ErrInvalidBound, upper, MaxUpper)
	}
	return nil
}

// manualBounds splits 1..upper into one contiguous block per worker.
// The products are taken in int64 so they cannot wrap on 32-bit platforms.
func manualBounds(upper int, w parallel.Worker) Bounds {
	u, id, t := int64(upper), int64(w.ID), int64(w.Threads)
	return Bounds{
		Worker: w.ID,
		Start:  int(u*id/t) + 1,
		End:    int(u * (id + 1) / t),
	}
}

// Hello runs one region in which every worker checks in, and returns the
// worker IDs in the order they checked in. The order changes from run to run.
func Hello(ctx context.Context, team *parallel.Team) ([]int, error) {
	var (
		mu  sync.Mutex
		ids []int
	)
	err := team.Parallel(ctx, func(_ context.Context, w parallel.Worker) error {
		mu.Lock()
		ids = append(ids, w.ID)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SumTo adds 1..upper with a parallel loop and a "+" reduction.
func SumTo(ctx context.Context, team *parallel.Team, upper int, sched parallel.Schedule) (SumResult, error) {
	if err := checkUpper(upper); err != nil {
		return SumResult{}, err
	}

	sum, err := parallel.Reduce(ctx, team, upper, sched, parallel.Sum[uint64](),
		func(acc uint64, i int) uint64 {
			return acc + uint64(i+1)
		})
	if err != nil {
		return SumResult{}, err
	}
	return SumResult{Upper: upper, Expected: expectedSum(upper), Computed: sum}, nil
}

// ManualSum adds 1..upper with bounds computed by each worker from its ID.
// Every worker sums into its own slot of a partials slice; the slots are
// added up after the join.
func ManualSum(ctx context.Context, team *parallel.Team, upper int) (SumResult, []Bounds, error) {
	if err := checkUpper(upper); err != nil {
		return SumResult{}, nil, err
	}

	partials := make([]uint64, team.Threads())
	bounds := make([]Bounds, team.Threads())

	err := team.Parallel(ctx, func(_ context.Context, w parallel.Worker) error {
		b := manualBounds(upper, w)
		bounds[w.ID] = b

		var local uint64
		for i := b.Start; i <= b.End; i++ {
			local += uint64(i)
		}
		partials[w.ID] = local
		return nil
	})
	if err != nil {
		return SumResult{}, nil, err
	}

	var sum uint64
	for _, p := range partials {
		sum += p
	}
	return SumResult{Upper: upper, Expected: expectedSum(upper), Computed: sum}, bounds, nil
}

// DefaultLessonSchedule is the schedule of the scheduling lesson.
var DefaultLessonSchedule = parallel.Schedule{Kind: parallel.Static, Chunk: 2}

// ScheduledSum adds 1..upper with a parallel loop under sched and records
// which worker ran each iteration.
func ScheduledSum(ctx context.Context, team *parallel.Team, upper int, sched parallel.Schedule) (SumResult, []Assignment, error) {
	if err := checkUpper(upper); err != nil {
		return SumResult{}, nil, err
	}

	owners := make([]int, upper)
	partials := make([]uint64, team.Threads())

	err := team.For(ctx, upper, sched, func(w parallel.Worker, i int) {
		owners[i] = w.ID
		partials[w.ID] += uint64(i + 1)
	})
	if err != nil {
		return SumResult{}, nil, err
	}

	var sum uint64
	for _, p := range partials {
		sum += p
	}
	assignments := make([]Assignment, upper)
	for i, w := range owners {
		assignments[i] = Assignment{Iteration: i + 1, Worker: w}
	}
	return SumResult{Upper: upper, Expected: expectedSum(upper), Computed: sum}, assignments, nil
}

// CriticalSum adds 1..upper with per-worker bounds and a private local sum
// that each worker adds to the shared total inside the team's critical
// section.
func CriticalSum(ctx context.Context, team *parallel.Team, upper int) (SumResult, []Bounds, error) {
	if err := checkUpper(upper); err != nil {
		return SumResult{}, nil, err
	}

	var total uint64
	bounds := make([]Bounds, team.Threads())

	err := team.Parallel(ctx, func(_ context.Context, w parallel.Worker) error {
		b := manualBounds(upper, w)
		bounds[w.ID] = b

		var localSum uint64
		for i := b.Start; i <= b.End; i++ {
			localSum += uint64(i)
		}

		team.Critical(func() {
			total += localSum
		})
		return nil
	})
	if err != nil {
		return SumResult{}, nil, err
	}
	return SumResult{Upper: upper, Expected: expectedSum(upper), Computed: total}, bounds, nil
}
