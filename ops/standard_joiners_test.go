package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

func TestInnerJoinerAbsentSideYieldsNothing(t *testing.T) {
	ctx := context.Background()
	out, err := ops.InnerJoiner{}.Join(ctx, []string{"id"}, row.FromSlice(row.Sentinel), row.FromSlice(row.Row{"id": 1}))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestLeftJoinerAbsentRightKeepsLeft(t *testing.T) {
	ctx := context.Background()
	left := row.FromSlice(row.Row{"id": 1})
	out, err := ops.LeftJoiner{}.Join(ctx, []string{"id"}, left, row.FromSlice(row.Sentinel))
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestLeftJoinerAbsentLeftYieldsNothing(t *testing.T) {
	ctx := context.Background()
	out, err := ops.LeftJoiner{}.Join(ctx, []string{"id"}, row.FromSlice(row.Sentinel), row.FromSlice(row.Row{"id": 1}))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestRightJoinerMirrorsLeft(t *testing.T) {
	ctx := context.Background()
	right := row.FromSlice(row.Row{"id": 1})
	out, err := ops.RightJoiner{}.Join(ctx, []string{"id"}, row.FromSlice(row.Sentinel), right)
	require.NoError(t, err)
	require.Len(t, out, 1)

	out, err = ops.RightJoiner{}.Join(ctx, []string{"id"}, row.FromSlice(row.Row{"id": 1}), row.FromSlice(row.Sentinel))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestOuterJoinerBothAbsentYieldsNothing(t *testing.T) {
	ctx := context.Background()
	out, err := ops.OuterJoiner{}.Join(ctx, []string{"id"}, row.FromSlice(row.Sentinel), row.FromSlice(row.Sentinel))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestOuterJoinerMatchedGroupIsCrossProduct(t *testing.T) {
	ctx := context.Background()
	left := row.FromSlice(row.Row{"id": 1, "a": "x"}, row.Row{"id": 1, "a": "y"})
	right := row.FromSlice(row.Row{"id": 1, "b": "p"}, row.Row{"id": 1, "b": "q"})
	out, err := ops.OuterJoiner{}.Join(ctx, []string{"id"}, left, right)
	require.NoError(t, err)
	require.Len(t, out, 4)
}
