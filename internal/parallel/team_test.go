package parallel

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/forkjoin/internal/logging"
	"github.com/kolkov/forkjoin/internal/metrics"
)

func TestNewTeam(t *testing.T) {
	t.Run("valid sizes", func(t *testing.T) {
		for _, n := range []int{1, 2, 16, MaxThreads} {
			team, err := NewTeam(n)
			require.NoError(t, err)
			assert.Equal(t, n, team.Threads())
		}
	})

	t.Run("invalid sizes", func(t *testing.T) {
		for _, n := range []int{-1, 0, MaxThreads + 1} {
			team, err := NewTeam(n)
			assert.Nil(t, team)
			assert.ErrorIs(t, err, ErrInvalidThreads)
		}
	})
}

func TestTeam_Parallel_RunsEveryWorkerOnce(t *testing.T) {
	team, err := NewTeam(8)
	require.NoError(t, err)

	var mu sync.Mutex
	var ids []int
	err = team.Parallel(context.Background(), func(_ context.Context, w Worker) error {
		assert.Equal(t, 8, w.Threads)
		mu.Lock()
		ids = append(ids, w.ID)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	sort.Ints(ids)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, ids)
}

func TestTeam_Parallel_FirstErrorCancelsRegion(t *testing.T) {
	team, err := NewTeam(4)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = team.Parallel(context.Background(), func(ctx context.Context, w Worker) error {
		if w.ID == 0 {
			return boom
		}
		<-ctx.Done()
		return ctx.Err()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTeam_Parallel_CancelledContext(t *testing.T) {
	team, err := NewTeam(2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = team.For(ctx, 100, Schedule{Kind: Dynamic}, func(Worker, int) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTeam_Critical_SerializesUpdates(t *testing.T) {
	team, err := NewTeam(16)
	require.NoError(t, err)

	counter := 0
	err = team.Parallel(context.Background(), func(_ context.Context, _ Worker) error {
		for range 1000 {
			team.Critical(func() { counter++ })
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 16*1000, counter)
}

func TestTeam_Options(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New()
	team, err := NewTeam(3,
		WithLogger(logging.NewLogger(&buf, logging.LevelDebug, logging.FormatText)),
		WithMetrics(m),
	)
	require.NoError(t, err)

	require.NoError(t, team.For(context.Background(), 9, Schedule{}, func(Worker, int) {}))

	assert.Contains(t, buf.String(), "component=team")
	assert.Contains(t, buf.String(), "region=for")
	assert.Contains(t, buf.String(), "msg=fork")
	assert.Contains(t, buf.String(), "msg=join")

	var out bytes.Buffer
	require.NoError(t, m.Dump(&out))
	assert.Contains(t, out.String(), "forkjoin_regions_total 1")
	assert.Contains(t, out.String(), `forkjoin_chunks_total{schedule="static"} 3`)

	n, err := testutil.GatherAndCount(m, "forkjoin_region_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
