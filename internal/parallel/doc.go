// Package parallel is a small fork-join runtime: a Team of a fixed number of
// workers, loop schedules that split an iteration space among them, and
// reductions that fold into private accumulators and merge them under the
// team's critical section.
//
// Every region forks exactly Threads goroutines and returns only after all
// of them finished, so results written inside a region are visible to the
// caller once Parallel, For or Reduce returns.
//
//	team, _ := parallel.NewTeam(4)
//	sum, err := parallel.Reduce(ctx, team, len(xs), parallel.Schedule{},
//		parallel.Sum[uint64](),
//		func(acc uint64, i int) uint64 { return acc + xs[i] })
package parallel
