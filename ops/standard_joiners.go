package ops

import (
	"context"

	"github.com/compgraph/compgraph/row"
)

// InnerJoiner emits the left-major cross product of a matched group and
// nothing when either side is absent.
type InnerJoiner struct {
	Suffixes
}

func (j InnerJoiner) Join(ctx context.Context, keys []string, left, right row.Iter) ([]row.Row, error) {
	leftRows, leftAbsent, err := readGroup(ctx, left)
	if err != nil {
		return nil, err
	}
	rightRows, rightAbsent, err := readGroup(ctx, right)
	if err != nil {
		return nil, err
	}
	if leftAbsent || rightAbsent {
		return nil, nil
	}
	suffixA, suffixB := j.resolve()
	ks := keySet(keys)
	out := make([]row.Row, 0, len(leftRows)*len(rightRows))
	for _, a := range leftRows {
		for _, b := range rightRows {
			out = append(out, mergeRow(a, b, ks, suffixA, suffixB))
		}
	}
	return out, nil
}

// LeftJoiner emits left rows padded with right columns when the matching
// right group is present, and left rows alone (unpadded) when it is
// absent. When the left side itself is absent (a right-only group with no
// matching left rows), it emits nothing.
type LeftJoiner struct {
	Suffixes
}

func (j LeftJoiner) Join(ctx context.Context, keys []string, left, right row.Iter) ([]row.Row, error) {
	leftRows, leftAbsent, err := readGroup(ctx, left)
	if err != nil {
		return nil, err
	}
	rightRows, rightAbsent, err := readGroup(ctx, right)
	if err != nil {
		return nil, err
	}
	if leftAbsent {
		return nil, nil
	}
	if rightAbsent {
		out := make([]row.Row, len(leftRows))
		copy(out, leftRows)
		return out, nil
	}
	suffixA, suffixB := j.resolve()
	ks := keySet(keys)
	out := make([]row.Row, 0, len(leftRows)*len(rightRows))
	for _, a := range leftRows {
		for _, b := range rightRows {
			out = append(out, mergeRow(a, b, ks, suffixA, suffixB))
		}
	}
	return out, nil
}

// RightJoiner is the mirror of LeftJoiner: it emits right rows padded
// with left columns when the matching left group is present, right rows
// alone when it is absent, and nothing when the right side itself is
// absent. Matched-group output still follows the left-major cross-product
// order (spec §4.4: ordering is pinned regardless of join strategy).
type RightJoiner struct {
	Suffixes
}

func (j RightJoiner) Join(ctx context.Context, keys []string, left, right row.Iter) ([]row.Row, error) {
	leftRows, leftAbsent, err := readGroup(ctx, left)
	if err != nil {
		return nil, err
	}
	rightRows, rightAbsent, err := readGroup(ctx, right)
	if err != nil {
		return nil, err
	}
	if rightAbsent {
		return nil, nil
	}
	if leftAbsent {
		out := make([]row.Row, len(rightRows))
		copy(out, rightRows)
		return out, nil
	}
	suffixA, suffixB := j.resolve()
	ks := keySet(keys)
	out := make([]row.Row, 0, len(leftRows)*len(rightRows))
	for _, a := range leftRows {
		for _, b := range rightRows {
			out = append(out, mergeRow(a, b, ks, suffixA, suffixB))
		}
	}
	return out, nil
}

// OuterJoiner emits every row from both sides: the left-major cross
// product of a matched group, left rows alone when right is absent, and
// right rows alone when left is absent. This is the standard
// cross-product-with-nulls reading of full outer join (see DESIGN.md for
// why this specification resolves the source's ambiguous
// one-merged-row-per-key behavior this way): it is the only reading
// consistent with the pinned invariant that an outer join over two
// disjoint key sets produces exactly |A|+|B| rows.
type OuterJoiner struct {
	Suffixes
}

func (j OuterJoiner) Join(ctx context.Context, keys []string, left, right row.Iter) ([]row.Row, error) {
	leftRows, leftAbsent, err := readGroup(ctx, left)
	if err != nil {
		return nil, err
	}
	rightRows, rightAbsent, err := readGroup(ctx, right)
	if err != nil {
		return nil, err
	}
	switch {
	case leftAbsent && rightAbsent:
		return nil, nil
	case leftAbsent:
		out := make([]row.Row, len(rightRows))
		copy(out, rightRows)
		return out, nil
	case rightAbsent:
		out := make([]row.Row, len(leftRows))
		copy(out, leftRows)
		return out, nil
	}
	suffixA, suffixB := j.resolve()
	ks := keySet(keys)
	out := make([]row.Row, 0, len(leftRows)*len(rightRows))
	for _, a := range leftRows {
		for _, b := range rightRows {
			out = append(out, mergeRow(a, b, ks, suffixA, suffixB))
		}
	}
	return out, nil
}
