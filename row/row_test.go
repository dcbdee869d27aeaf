package row_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/row"
)

func TestRowGetMissingColumn(t *testing.T) {
	r := row.Row{"a": 1}
	_, err := r.Get("b")
	require.ErrorIs(t, err, row.ErrMissingColumn)
}

func TestRowClone(t *testing.T) {
	r := row.Row{"a": 1, "b": "x"}
	c := r.Clone()
	c["a"] = 2
	require.Equal(t, 1, r["a"])
	require.Equal(t, 2, c["a"])
}

func TestRowKey(t *testing.T) {
	r := row.Row{"a": 1, "b": "x", "c": 2.5}
	key, err := r.Key([]string{"b", "a"})
	require.NoError(t, err)
	require.Equal(t, []any{"x", 1}, key)
}

func TestFromSliceAndCollect(t *testing.T) {
	rows := []row.Row{{"a": 1}, {"a": 2}}
	it := row.FromSlice(rows...)
	ctx := context.Background()

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

func TestFromSliceEOF(t *testing.T) {
	it := row.FromSlice()
	_, err := it.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestIsSentinel(t *testing.T) {
	require.True(t, row.IsSentinel(row.Sentinel))
	require.False(t, row.IsSentinel(row.Row{}))
}
