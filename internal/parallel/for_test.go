package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_For_VisitsEveryIterationOnce(t *testing.T) {
	schedules := []Schedule{{}, {Kind: Static, Chunk: 2}, {Kind: Dynamic}, {Kind: Dynamic, Chunk: 8}, {Kind: Guided}}

	for _, sched := range schedules {
		for _, threads := range []int{1, 2, 4, 8, 16} {
			team, err := NewTeam(threads)
			require.NoError(t, err)

			const n = 1000
			var hits [n]atomic.Int32
			err = team.For(context.Background(), n, sched, func(w Worker, i int) {
				assert.Less(t, w.ID, threads)
				hits[i].Add(1)
			})
			require.NoError(t, err)

			for i := range hits {
				if got := hits[i].Load(); got != 1 {
					t.Fatalf("%s T=%d: iteration %d ran %d times", sched, threads, i, got)
				}
			}
		}
	}
}

// TestTeam_For_StaticFollowsPlan: a static region runs exactly the planned
// chunks on the planned workers.
func TestTeam_For_StaticFollowsPlan(t *testing.T) {
	team, err := NewTeam(3)
	require.NoError(t, err)

	sched := Schedule{Kind: Static, Chunk: 2}
	const n = 11
	owner := make([]int, n)
	err = team.For(context.Background(), n, sched, func(w Worker, i int) {
		owner[i] = w.ID
	})
	require.NoError(t, err)

	for w, ranges := range Plan(n, 3, sched) {
		for _, r := range ranges {
			for i := r.Start; i < r.End; i++ {
				assert.Equal(t, w, owner[i], "iteration %d", i)
			}
		}
	}
}

func TestTeam_For_InvalidSchedule(t *testing.T) {
	team, err := NewTeam(2)
	require.NoError(t, err)

	err = team.For(context.Background(), 10, Schedule{Chunk: -2}, func(Worker, int) {})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestTeam_For_Empty(t *testing.T) {
	team, err := NewTeam(4)
	require.NoError(t, err)

	called := atomic.Bool{}
	require.NoError(t, team.For(context.Background(), 0, Schedule{Kind: Guided}, func(Worker, int) {
		called.Store(true)
	}))
	assert.False(t, called.Load())
}
