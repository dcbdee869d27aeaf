package ops

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/row"
)

// Joiner sees the two sides of one matched or unmatched join-key group and
// emits the joined rows for it. Either side may be the single-element
// row.Sentinel sequence meaning "no row on this side" — a Joiner must
// recognize that before dereferencing columns. Joiners carry suffix
// strings used to disambiguate non-key columns present on both sides.
type Joiner interface {
	Join(ctx context.Context, keys []string, left, right row.Iter) ([]row.Row, error)
}

// Suffixes holds the column-conflict suffixes every standard joiner uses,
// defaulting to "_1"/"_2" per spec.
type Suffixes struct {
	SuffixA string
	SuffixB string
}

func (s Suffixes) resolve() (string, string) {
	a, b := s.SuffixA, s.SuffixB
	if a == "" {
		a = "_1"
	}
	if b == "" {
		b = "_2"
	}
	return a, b
}

// readGroup drains a joiner-side sequence, reporting whether it was the
// no-row sentinel rather than a real (non-empty) group.
func readGroup(ctx context.Context, it row.Iter) (rows []row.Row, absent bool, err error) {
	for {
		r, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, false, err
		}
		rows = append(rows, r)
	}
	if len(rows) == 1 && row.IsSentinel(rows[0]) {
		return nil, true, nil
	}
	return rows, false, nil
}

// mergeRow applies the collision rule: a non-key column present on both
// sides is emitted twice, suffixed; a column present on only one side, or
// a join key, is emitted once under its original name.
func mergeRow(a, b row.Row, keys map[string]bool, suffixA, suffixB string) row.Row {
	out := make(row.Row, len(a)+len(b))
	for k, v := range a {
		if _, inB := b[k]; inB && !keys[k] {
			out[k+suffixA] = v
		} else {
			out[k] = v
		}
	}
	for k, v := range b {
		if _, inA := a[k]; inA && !keys[k] {
			out[k+suffixB] = v
		} else {
			out[k] = v
		}
	}
	return out
}

func keySet(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
