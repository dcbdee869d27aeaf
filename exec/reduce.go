package exec

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

// reduceIter partitions upstream into maximal runs of consecutive rows
// sharing the same group-key value (via Grouper) and concatenates the
// reducer's output across groups, preserving group order (spec §5:
// "Reduce preserves group order").
type reduceIter struct {
	grouper *Grouper
	reducer ops.Reducer
	keyCols []string
	buf     []row.Row
}

// NewReduce wraps upstream with reducer over keyCols. upstream must
// already be ordered on keyCols; this is not validated (spec §7,
// "ordering violations ... silent today").
func NewReduce(upstream row.Iter, reducer ops.Reducer, keyCols []string) row.Iter {
	return &reduceIter{
		grouper: NewGrouper(upstream, keyCols),
		reducer: reducer,
		keyCols: keyCols,
	}
}

func (r *reduceIter) Next(ctx context.Context) (row.Row, error) {
	for len(r.buf) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, sub, err := r.grouper.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		out, err := r.reducer.Reduce(ctx, r.keyCols, sub)
		if err != nil {
			return nil, err
		}
		r.buf = out
	}
	out := r.buf[0]
	r.buf = r.buf[1:]
	return out, nil
}

func (r *reduceIter) Close(ctx context.Context) error {
	return r.grouper.Close(ctx)
}
