package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/exec"
	"github.com/compgraph/compgraph/row"
)

func keysOf(t *testing.T, rows []row.Row, cols []string) [][]any {
	t.Helper()
	out := make([][]any, len(rows))
	for i, r := range rows {
		k, err := r.Key(cols)
		require.NoError(t, err)
		out[i] = k
	}
	return out
}

func TestSortAscending(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"v": 3}, {"v": 1}, {"v": 2},
	}
	it := exec.NewSort(row.FromSlice(rows...), []string{"v"}, false, exec.SortOptions{})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Equal(t, [][]any{{1}, {2}, {3}}, keysOf(t, got, []string{"v"}))
}

func TestSortReversed(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"v": 3}, {"v": 1}, {"v": 2},
	}
	it := exec.NewSort(row.FromSlice(rows...), []string{"v"}, true, exec.SortOptions{})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Equal(t, [][]any{{3}, {2}, {1}}, keysOf(t, got, []string{"v"}))
}

func TestSortIsPermutation(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"v": 5}, {"v": 3}, {"v": 9}, {"v": 1}, {"v": 3},
	}
	it := exec.NewSort(row.FromSlice(rows...), []string{"v"}, false, exec.SortOptions{})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Len(t, got, len(rows))

	count := func(rs []row.Row) map[int]int {
		m := map[int]int{}
		for _, r := range rs {
			m[r["v"].(int)]++
		}
		return m
	}
	require.Equal(t, count(rows), count(got))
}

func TestSortSpillsAcrossMultipleRuns(t *testing.T) {
	ctx := context.Background()
	n := 2500
	rows := make([]row.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = row.Row{"v": n - i}
	}
	it := exec.NewSort(row.FromSlice(rows...), []string{"v"}, false, exec.SortOptions{MaxInMemoryRows: 100})

	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := 0; i < n; i++ {
		require.Equal(t, i+1, got[i]["v"])
	}
}

func TestSortOfSortIsSort(t *testing.T) {
	ctx := context.Background()
	rows := []row.Row{
		{"v": 4}, {"v": 2}, {"v": 8}, {"v": 1},
	}
	once := exec.NewSort(row.FromSlice(rows...), []string{"v"}, false, exec.SortOptions{})
	firstPass, err := row.Collect(ctx, once)
	require.NoError(t, err)

	twice := exec.NewSort(row.FromSlice(firstPass...), []string{"v"}, false, exec.SortOptions{})
	secondPass, err := row.Collect(ctx, twice)
	require.NoError(t, err)

	require.Equal(t, firstPass, secondPass)
}
