package ops

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/row"
)

// AverageSpeed computes the average speed in km/h over a group of
// (distance, enter_time, leave_time) rows: total distance divided by total
// elapsed time, grounded directly on the original yandex_maps_graph
// AverageSpeed reducer.
type AverageSpeed struct {
	DistanceCol  string
	EnterTimeCol string
	LeaveTimeCol string
	Result       string
}

func (a AverageSpeed) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	var totalDist, totalHours float64
	var first row.Row

	for {
		r, err := rows.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if first == nil {
			first = r
		}

		dv, err := r.Get(a.DistanceCol)
		if err != nil {
			return nil, err
		}
		dist, err := row.AsFloat(dv)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", a.DistanceCol)
		}
		totalDist += dist

		enter, err := r.Get(a.EnterTimeCol)
		if err != nil {
			return nil, err
		}
		leave, err := r.Get(a.LeaveTimeCol)
		if err != nil {
			return nil, err
		}
		enterStr, ok1 := enter.(string)
		leaveStr, ok2 := leave.(string)
		if !ok1 || !ok2 {
			return nil, errors.New("compgraph: AverageSpeed time columns must be strings")
		}
		enterT, err := parseRowTime(enterStr)
		if err != nil {
			return nil, err
		}
		leaveT, err := parseRowTime(leaveStr)
		if err != nil {
			return nil, err
		}
		totalHours += leaveT.Sub(enterT).Hours()
	}

	if first == nil {
		return nil, nil
	}
	out := keyRow(groupKey, first)
	out[a.Result] = totalDist / totalHours
	return []row.Row{out}, nil
}
