package ops_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

func TestCountReducer(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(row.Row{"k": "a"}, row.Row{"k": "a"}, row.Row{"k": "a"})
	out, err := ops.Count{Out: "n"}.Reduce(ctx, []string{"k"}, rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 3, out[0]["n"])
	require.Equal(t, "a", out[0]["k"])
}

func TestSumReducer(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(row.Row{"k": "a", "v": 0.1}, row.Row{"k": "a", "v": 0.2})
	out, err := ops.Sum{Col: "v"}.Reduce(ctx, []string{"k"}, rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, 0.3, out[0]["v"], 1e-12)
}

func TestTermFrequencySumsToOne(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(
		row.Row{"doc": "d1", "w": "a"},
		row.Row{"doc": "d1", "w": "a"},
		row.Row{"doc": "d1", "w": "b"},
	)
	out, err := ops.TermFrequency{WordsCol: "w", Out: "tf"}.Reduce(ctx, []string{"doc"}, rows)
	require.NoError(t, err)

	total := 0.0
	for _, r := range out {
		total += r["tf"].(float64)
	}
	require.InDelta(t, 1.0, total, 1e-12)
}

func TestTopNCapsGroupSize(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(
		row.Row{"v": 1}, row.Row{"v": 5}, row.Row{"v": 3}, row.Row{"v": 9}, row.Row{"v": 2},
	)
	out, err := ops.TopN{Col: "v", N: 2}.Reduce(ctx, nil, rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	values := map[int]bool{}
	for _, r := range out {
		values[r["v"].(int)] = true
	}
	require.True(t, values[9])
	require.True(t, values[5])
}

func TestTopNKeepsEverythingWhenGroupSmallerThanN(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(row.Row{"v": 1}, row.Row{"v": 2})
	out, err := ops.TopN{Col: "v", N: 5}.Reduce(ctx, nil, rows)
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestFirstReducerDrainsRemainingRows(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(row.Row{"v": 1}, row.Row{"v": 2}, row.Row{"v": 3})
	out, err := ops.FirstReducer{}.Reduce(ctx, nil, rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0]["v"])

	_, err = rows.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}
