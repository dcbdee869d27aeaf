package ops

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/compgraph/compgraph/row"
)

func drainGroup(ctx context.Context, rows row.Iter) ([]row.Row, error) {
	var out []row.Row
	for {
		r, err := rows.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, r)
	}
}

func keyRow(groupKey []string, src row.Row) row.Row {
	out := make(row.Row, len(groupKey))
	for _, k := range groupKey {
		out[k] = src[k]
	}
	return out
}

// FirstReducer yields only the first row of the group.
type FirstReducer struct{}

func (FirstReducer) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	defer func() { _, _ = drainGroup(ctx, rows) }()
	r, err := rows.Next(ctx)
	if err != nil {
		return nil, err
	}
	return []row.Row{r}, nil
}

// Count emits one row per group: the group's key columns plus an "out"
// column holding the number of rows in the group.
type Count struct {
	Out string
}

func (c Count) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	all, err := drainGroup(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	out := keyRow(groupKey, all[0])
	out[c.Out] = len(all)
	return []row.Row{out}, nil
}

// Sum emits one row per group: the group's key columns plus Col set to
// the sum of Col over the group, accumulated via decimal.Decimal so that
// many small floating summands don't accumulate the usual binary-float
// drift before being converted back to the row's float64 representation.
type Sum struct {
	Col string
}

func (s Sum) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	all, err := drainGroup(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	total := decimal.Zero
	for _, r := range all {
		v, err := r.Get(s.Col)
		if err != nil {
			return nil, err
		}
		f, err := row.AsFloat(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", s.Col)
		}
		total = total.Add(decimal.NewFromFloat(f))
	}
	out := keyRow(groupKey, all[0])
	f, _ := total.Float64()
	out[s.Col] = f
	return []row.Row{out}, nil
}

// TermFrequency emits, for each distinct value in WordsCol within the
// group, a row {keys..., WordsCol: w, Out: occurrences(w)/total}. If
// CountCol is set, occurrences/total are sums of that column rather than
// row counts (used by PMI, where a prior Count reducer has already
// collapsed duplicate (doc,word) pairs into a weighted count).
type TermFrequency struct {
	WordsCol string
	Out      string
	CountCol string // optional
}

func (tf TermFrequency) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	all, err := drainGroup(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	order := make([]string, 0)
	counts := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, r := range all {
		wv, err := r.Get(tf.WordsCol)
		if err != nil {
			return nil, err
		}
		w, ok := wv.(string)
		if !ok {
			return nil, errors.Errorf("compgraph: TermFrequency words column %q is not a string", tf.WordsCol)
		}
		weight := decimal.NewFromInt(1)
		if tf.CountCol != "" {
			cv, err := r.Get(tf.CountCol)
			if err != nil {
				return nil, err
			}
			f, err := row.AsFloat(cv)
			if err != nil {
				return nil, errors.Wrapf(err, "column %q", tf.CountCol)
			}
			weight = decimal.NewFromFloat(f)
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
			counts[w] = decimal.Zero
		}
		counts[w] = counts[w].Add(weight)
		total = total.Add(weight)
	}

	out := make([]row.Row, 0, len(order))
	for _, w := range order {
		r := keyRow(groupKey, all[0])
		r[tf.WordsCol] = w
		v, _ := counts[w].Div(total).Float64()
		r[tf.Out] = v
		out = append(out, r)
	}
	return out, nil
}

// TopN keeps the n rows of the group with the largest values of Col,
// preserving arrival order among kept rows. Exactly min(n, group size)
// rows are kept; ties may keep either row.
type TopN struct {
	Col string
	N   int
}

func (t TopN) Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error) {
	all, err := drainGroup(ctx, rows)
	if err != nil {
		return nil, err
	}
	if t.N <= 0 || len(all) == 0 {
		return nil, nil
	}
	if len(all) <= t.N {
		return all, nil
	}

	type scored struct {
		r   row.Row
		v   float64
		idx int
	}
	scoredRows := make([]scored, len(all))
	for i, r := range all {
		v, err := r.Get(t.Col)
		if err != nil {
			return nil, err
		}
		f, err := row.AsFloat(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", t.Col)
		}
		scoredRows[i] = scored{r: r, v: f, idx: i}
	}

	kept := make([]scored, len(scoredRows))
	copy(kept, scoredRows)
	// Partial selection sort for the N largest values; N is typically
	// small (top-3, top-10) relative to group size, so this is cheaper
	// and simpler than a full sort of the group.
	for i := 0; i < t.N; i++ {
		best := i
		for j := i + 1; j < len(kept); j++ {
			if kept[j].v > kept[best].v {
				best = j
			}
		}
		kept[i], kept[best] = kept[best], kept[i]
	}
	kept = kept[:t.N]

	// Restore arrival order among the kept rows.
	out := make([]scored, len(kept))
	copy(out, kept)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].idx < out[i].idx {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	result := make([]row.Row, len(out))
	for i, s := range out {
		result[i] = s.r
	}
	return result, nil
}
