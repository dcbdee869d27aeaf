package exec

import (
	"context"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

// mapIter applies a Mapper to an upstream row.Iter, buffering however many
// rows the mapper emitted for the current input row before advancing
// upstream. The buffer is bounded by one input row's worth of output.
type mapIter struct {
	upstream row.Iter
	mapper   ops.Mapper
	buf      []row.Row
}

// NewMap wraps upstream with mapper, preserving input order per spec §5
// ("Map preserves input order").
func NewMap(upstream row.Iter, mapper ops.Mapper) row.Iter {
	return &mapIter{upstream: upstream, mapper: mapper}
}

func (m *mapIter) Next(ctx context.Context) (row.Row, error) {
	for len(m.buf) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := m.upstream.Next(ctx)
		if err != nil {
			return nil, err
		}
		out, err := m.mapper.Map(r)
		if err != nil {
			return nil, err
		}
		m.buf = out
	}
	r := m.buf[0]
	m.buf = m.buf[1:]
	return r, nil
}

func (m *mapIter) Close(ctx context.Context) error {
	return m.upstream.Close(ctx)
}
