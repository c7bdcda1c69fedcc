package bughunt

import (
	"context"
	"fmt"

	"github.com/kolkov/forkjoin/internal/parallel"
)

// Result is the output of one exercise run.
type Result struct {
	Sequence  Sequence
	Aggregate Aggregate
	Average   float64
}

// Run builds the sequence of n elements and then reduces it on team.
// The builder finishes before the reducer forks.
func Run(ctx context.Context, team *parallel.Team, n int, sched parallel.Schedule) (*Result, error) {
	seq, err := Build(n)
	if err != nil {
		return nil, err
	}

	agg, err := Reduce(ctx, team, seq, sched)
	if err != nil {
		return nil, fmt.Errorf("reduce %d elements: %w", n, err)
	}

	return &Result{
		Sequence:  seq,
		Aggregate: agg,
		Average:   Average(agg, len(seq)),
	}, nil
}
