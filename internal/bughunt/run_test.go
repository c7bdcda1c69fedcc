package bughunt

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/forkjoin/internal/parallel"
)

const report100 = `Array[0]:   1
Array[1]:   3
Array[2]:   6
Array[3]:   10
Array[4]:   15
Array[5]:   21
...
Array[99]:  5050
Sum:        171700
Min:        1
Max:        5050
Average:    1717.00
Even count: 50
`

func TestRun_Report(t *testing.T) {
	for _, threads := range []int{1, 2, 4, 8, 16} {
		team, err := parallel.NewTeam(threads)
		require.NoError(t, err)

		res, err := Run(context.Background(), team, 100, parallel.Schedule{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, res))
		assert.Equal(t, report100, buf.String(), "threads=%d", threads)
	}
}

func TestRun_MinimumN(t *testing.T) {
	team, err := parallel.NewTeam(4)
	require.NoError(t, err)

	res, err := Run(context.Background(), team, 6, parallel.Schedule{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res))
	assert.Contains(t, buf.String(), "Array[5]:   21\n...\nArray[5]:  21\n")
	assert.Contains(t, buf.String(), "Average:    9.33\n")
}

func TestRun_RejectsSmallN(t *testing.T) {
	team, err := parallel.NewTeam(2)
	require.NoError(t, err)

	res, err := Run(context.Background(), team, 5, parallel.Schedule{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrRange)
}

func TestRun_Cancelled(t *testing.T) {
	team, err := parallel.NewTeam(2)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, team, 100, parallel.Schedule{})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriteReport_WriterError(t *testing.T) {
	seq, err := Build(6)
	require.NoError(t, err)

	err = WriteReport(failingWriter{}, &Result{Sequence: seq, Aggregate: fold(seq)})
	assert.ErrorIs(t, err, assert.AnError)
}
