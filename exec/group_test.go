package exec_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/exec"
	"github.com/compgraph/compgraph/row"
)

func TestGrouperBasic(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"k": "a", "v": 1},
		{"k": "a", "v": 2},
		{"k": "b", "v": 3},
	}
	g := exec.NewGrouper(row.FromSlice(rows...), []string{"k"})

	key, sub, err := g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, key)
	got, err := row.Collect(ctx, sub)
	require.NoError(t, err)
	require.Len(t, got, 2)

	key, sub, err = g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []any{"b"}, key)
	got, err = row.Collect(ctx, sub)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, _, err = g.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestGrouperDrainsAbandonedGroup(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"k": "a", "v": 1},
		{"k": "a", "v": 2},
		{"k": "a", "v": 3},
		{"k": "b", "v": 4},
	}
	g := exec.NewGrouper(row.FromSlice(rows...), []string{"k"})

	_, sub, err := g.Next(ctx)
	require.NoError(t, err)
	// Consume only the first row of group "a", abandoning the rest.
	_, err = sub.Next(ctx)
	require.NoError(t, err)

	key, sub, err := g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []any{"b"}, key)
	got, err := row.Collect(ctx, sub)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGrouperEmptyInput(t *testing.T) {
	g := exec.NewGrouper(row.FromSlice(), []string{"k"})
	_, _, err := g.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}
