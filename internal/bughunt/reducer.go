package bughunt

import (
	"context"
	"math"

	"github.com/kolkov/forkjoin/internal/parallel"
)

// Aggregate is the statistics of a sequence.
//
// Count is the number of elements folded in. An Aggregate with Count 0 is
// empty and its Min and Max are only seeds; Combine ignores it.
type Aggregate struct {
	Sum       uint64
	Min       uint64
	Max       uint64
	EvenCount uint64
	Count     uint64
}

// EmptyAggregate returns the identity accumulator.
func EmptyAggregate() Aggregate {
	return Aggregate{Min: math.MaxUint64}
}

// Add folds one value into a.
func (a Aggregate) Add(x uint64) Aggregate {
	a.Sum += x
	a.Min = min(a.Min, x)
	a.Max = max(a.Max, x)
	if x%2 == 0 {
		a.EvenCount++
	}
	a.Count++
	return a
}

// Combine merges two partial aggregates. It is associative and commutative,
// and empty partials leave the other side unchanged.
func Combine(a, b Aggregate) Aggregate {
	switch {
	case b.Count == 0:
		return a
	case a.Count == 0:
		return b
	}
	return Aggregate{
		Sum:       a.Sum + b.Sum,
		Min:       min(a.Min, b.Min),
		Max:       max(a.Max, b.Max),
		EvenCount: a.EvenCount + b.EvenCount,
		Count:     a.Count + b.Count,
	}
}

var aggregateOp = parallel.Op[Aggregate]{
	Name:     "stats",
	Identity: EmptyAggregate,
	Combine:  Combine,
}

// Reduce computes the statistics of seq on team.
//
// Each worker folds its share of the indices into a private Aggregate and
// merges it once, inside the team's critical section. seq is only read.
func Reduce(ctx context.Context, team *parallel.Team, seq Sequence, sched parallel.Schedule) (Aggregate, error) {
	return parallel.Reduce(ctx, team, len(seq), sched, aggregateOp,
		func(acc Aggregate, i int) Aggregate {
			return acc.Add(seq[i])
		})
}

// Average returns Sum / n, or 0 when n is not positive.
func Average(agg Aggregate, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(agg.Sum) / float64(n)
}
