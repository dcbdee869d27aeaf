// Package row defines the universal data unit that flows through a compgraph
// pipeline: a mapping from column name to a dynamically-typed scalar value,
// and the lazy, single-pass iterator that stages use to hand rows downstream.
package row

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// Row is a mapping from column name to value. Supported value kinds are
// int, int64, float64, string, bool, nil and []float64 (coordinate
// columns). Rows are treated as immutable once handed downstream; an
// operator that needs to change a column builds a new Row.
type Row map[string]any

// Clone returns a shallow copy of r. Mappers that rewrite one column while
// preserving the rest (Split, Function) use this to avoid mutating a row
// some other consumer may still reference.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Get returns the value stored at col, wrapping ErrMissingColumn if col is
// not present. Every operator that reads a column it depends on should
// route through Get rather than a raw map index, so a malformed
// row surfaces a typed error instead of a nil interface silently flowing
// downstream.
func (r Row) Get(col string) (any, error) {
	v, ok := r[col]
	if !ok {
		return nil, errors.Wrapf(ErrMissingColumn, "column %q", col)
	}
	return v, nil
}

// Key builds the group-key value tuple of r over the given ordered column
// names. The returned slice is comparable element-wise but not itself a
// valid map key; compare key tuples with KeysEqual or CompareKeys.
func (r Row) Key(cols []string) ([]any, error) {
	key := make([]any, len(cols))
	for i, c := range cols {
		v, err := r.Get(c)
		if err != nil {
			return nil, err
		}
		key[i] = v
	}
	return key, nil
}

var (
	// ErrMissingColumn is returned (wrapped) when an operator reads a
	// column that is not present on a row.
	ErrMissingColumn = errors.New("compgraph: missing column")
	// ErrNotNumeric is returned (wrapped) when an operator needs a
	// numeric value but the column holds something else.
	ErrNotNumeric = errors.New("compgraph: value is not numeric")
)

// Iter is a finite, forward-only, single-pass stream of rows. Next returns
// io.EOF once exhausted; implementations must tolerate Close being called
// at any point, including before the sequence is drained, and must release
// any file handles or temp files they own when Close runs.
type Iter interface {
	// Next returns the next row in the sequence, or io.EOF when the
	// sequence is exhausted. Next must not be called again after it has
	// returned a non-nil error.
	Next(ctx context.Context) (Row, error)
	// Close releases any resource (open file, temp file, nested
	// iterator) this Iter owns. Close must be idempotent-safe to call
	// even if Next was never called or the sequence wasn't drained.
	Close(ctx context.Context) error
}

// Collect drains iter into a slice, closing it on every exit path. It is a
// test/debugging convenience, not used on the hot execution path.
func Collect(ctx context.Context, iter Iter) ([]Row, error) {
	defer iter.Close(ctx)

	var out []Row
	for {
		r, err := iter.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, r)
	}
}

// sliceIter is an Iter over an in-memory slice of rows. It is the
// simplest possible Iter and backs Sentinel, tests, and small fixed inputs.
type sliceIter struct {
	rows []Row
	pos  int
}

// FromSlice returns an Iter that yields the given rows in order. Used
// throughout the test suite in place of the teacher's memory-table
// iterators, and by exec.Join to wrap the no-row sentinel as a one-element
// sequence.
func FromSlice(rows ...Row) Iter {
	return &sliceIter{rows: rows}
}

func (s *sliceIter) Next(ctx context.Context) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *sliceIter) Close(ctx context.Context) error { return nil }

// Sentinel is the no-row marker a sort-merge join passes to a joiner for
// the side that has no row in the current matched key. Joiners must test
// for it before dereferencing columns (see ops.Joiner).
var Sentinel Row = nil

// IsSentinel reports whether r is the no-row marker.
func IsSentinel(r Row) bool { return r == nil }
