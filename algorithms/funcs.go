package algorithms

import (
	"math"

	"github.com/compgraph/compgraph/row"
)

// reciprocal and naturalLog are the two scalar transforms ops.Function
// needs wired up for inverted_index_graph and pmi_graph (1/x and log(x)
// over a column), expressed against ops.Function's any->any,error shape.
func reciprocal(v any) (any, error) {
	f, err := row.AsFloat(v)
	if err != nil {
		return nil, err
	}
	return 1 / f, nil
}

func naturalLog(v any) (any, error) {
	f, err := row.AsFloat(v)
	if err != nil {
		return nil, err
	}
	return math.Log(f), nil
}
