package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

func TestAverageSpeedOneHourOneKM(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(row.Row{
		"dist":  1.0,
		"enter": "20171020T090000",
		"leave": "20171020T100000",
	})
	reducer := ops.AverageSpeed{
		DistanceCol:  "dist",
		EnterTimeCol: "enter",
		LeaveTimeCol: "leave",
		Result:       "speed",
	}
	out, err := reducer.Reduce(ctx, nil, rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, 1.0, out[0]["speed"], 1e-9)
}

func TestAverageSpeedSumsAcrossGroup(t *testing.T) {
	ctx := context.Background()
	rows := row.FromSlice(
		row.Row{"dist": 2.0, "enter": "20171020T090000", "leave": "20171020T100000"},
		row.Row{"dist": 2.0, "enter": "20171020T100000", "leave": "20171020T110000"},
	)
	reducer := ops.AverageSpeed{
		DistanceCol:  "dist",
		EnterTimeCol: "enter",
		LeaveTimeCol: "leave",
		Result:       "speed",
	}
	out, err := reducer.Reduce(ctx, nil, rows)
	require.NoError(t, err)
	require.InDelta(t, 2.0, out[0]["speed"], 1e-9)
}
