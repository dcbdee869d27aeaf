package algorithms_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/algorithms"
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/row"
)

func TestAverageRoadSpeedJoinsTimeAndLength(t *testing.T) {
	ctx := context.Background()
	g := algorithms.AverageRoadSpeed("times", "lengths", "edge_id")

	inputs := graph.Inputs{
		"times": func() row.Iter {
			return row.FromSlice(row.Row{
				"edge_id":    1,
				"enter_time": "20171020T090000",
				"leave_time": "20171020T100000",
			})
		},
		"lengths": func() row.Iter {
			return row.FromSlice(row.Row{
				"edge_id": 1,
				"start":   []float64{37.84870, 55.73878},
				"end":     []float64{37.82000, 55.74000},
			})
		},
	}

	it, err := g.Run(ctx, inputs)
	require.NoError(t, err)
	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, got[0], "speed")
	require.Equal(t, "Fri", got[0]["weekday"])
	require.Equal(t, 9, got[0]["hour"])
	require.Greater(t, got[0]["speed"].(float64), 0.0)
}
