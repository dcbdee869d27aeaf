package exec

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

// joinIter is the sort-merge join driver of spec §4.4. It groups both
// sorted inputs by key (via Grouper) and advances two cursors in
// lockstep, handing each matched or unmatched group to the configured
// Joiner. Both inputs must already be sorted ascending on keys under the
// same comparator; this is not validated (spec §7).
type joinIter struct {
	left, right *Grouper
	joiner      ops.Joiner
	keys        []string

	leftKey, rightKey   []any
	leftSub, rightSub   row.Iter
	leftDone, rightDone bool
	started             bool

	buf []row.Row
}

// NewJoin drives joiner over left (the preceding stage's output) and
// right (the paired sub-graph's output), both grouped by keys.
func NewJoin(left, right row.Iter, joiner ops.Joiner, keys []string) row.Iter {
	return &joinIter{
		left:   NewGrouper(left, keys),
		right:  NewGrouper(right, keys),
		joiner: joiner,
		keys:   keys,
	}
}

func (j *joinIter) advanceLeft(ctx context.Context) error {
	key, sub, err := j.left.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			j.leftDone = true
			return nil
		}
		return err
	}
	j.leftKey, j.leftSub = key, sub
	return nil
}

func (j *joinIter) advanceRight(ctx context.Context) error {
	key, sub, err := j.right.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			j.rightDone = true
			return nil
		}
		return err
	}
	j.rightKey, j.rightSub = key, sub
	return nil
}

func (j *joinIter) ensureStarted(ctx context.Context) error {
	if j.started {
		return nil
	}
	j.started = true
	if err := j.advanceLeft(ctx); err != nil {
		return err
	}
	return j.advanceRight(ctx)
}

func sentinelIter() row.Iter { return row.FromSlice(row.Sentinel) }

func (j *joinIter) Next(ctx context.Context) (row.Row, error) {
	if err := j.ensureStarted(ctx); err != nil {
		return nil, err
	}

	for len(j.buf) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if j.leftDone && j.rightDone {
			return nil, io.EOF
		}

		var out []row.Row
		var err error
		switch {
		case j.leftDone:
			out, err = j.joiner.Join(ctx, j.keys, sentinelIter(), j.rightSub)
			if err == nil {
				err = j.advanceRight(ctx)
			}
		case j.rightDone:
			out, err = j.joiner.Join(ctx, j.keys, j.leftSub, sentinelIter())
			if err == nil {
				err = j.advanceLeft(ctx)
			}
		default:
			cmp, cerr := row.CompareKeys(j.leftKey, j.rightKey)
			if cerr != nil {
				return nil, cerr
			}
			switch {
			case cmp == 0:
				out, err = j.joiner.Join(ctx, j.keys, j.leftSub, j.rightSub)
				if err == nil {
					err = j.advanceLeft(ctx)
				}
				if err == nil {
					err = j.advanceRight(ctx)
				}
			case cmp < 0:
				out, err = j.joiner.Join(ctx, j.keys, j.leftSub, sentinelIter())
				if err == nil {
					err = j.advanceLeft(ctx)
				}
			default:
				out, err = j.joiner.Join(ctx, j.keys, sentinelIter(), j.rightSub)
				if err == nil {
					err = j.advanceRight(ctx)
				}
			}
		}
		if err != nil {
			return nil, err
		}
		j.buf = out
	}

	r := j.buf[0]
	j.buf = j.buf[1:]
	return r, nil
}

func (j *joinIter) Close(ctx context.Context) error {
	err1 := j.left.Close(ctx)
	err2 := j.right.Close(ctx)
	if err1 != nil {
		return err1
	}
	return err2
}
