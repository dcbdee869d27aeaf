package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/exec"
	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

func TestReduceCount(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"k": "a"}, {"k": "a"}, {"k": "b"},
	}
	it := exec.NewReduce(row.FromSlice(rows...), ops.Count{Out: "n"}, []string{"k"})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0]["k"])
	require.Equal(t, 2, got[0]["n"])
	require.Equal(t, "b", got[1]["k"])
	require.Equal(t, 1, got[1]["n"])
}

func TestReduceCountEqualsInputLength(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"k": "a"}, {"k": "b"}, {"k": "c"},
	}
	it := exec.NewReduce(row.FromSlice(rows...), ops.Count{Out: "n"}, []string{"k"})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)

	total := 0
	for _, r := range got {
		total += r["n"].(int)
	}
	require.Equal(t, len(rows), total)
}

func TestReducePreservesGroupOrder(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"k": "z"}, {"k": "z"}, {"k": "a"},
	}
	it := exec.NewReduce(row.FromSlice(rows...), ops.FirstReducer{}, []string{"k"})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Equal(t, []row.Row{{"k": "z"}, {"k": "a"}}, got)
}
