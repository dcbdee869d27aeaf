package exec

import (
	"container/heap"
	"context"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/internal/spill"
	"github.com/compgraph/compgraph/row"
)

// defaultMaxInMemoryRows bounds the in-memory sort buffer before a run is
// spilled to disk. Used when SortOptions.MaxInMemoryRows is zero; it is a
// default, not a hard limit, so callers
// processing small inputs never pay for a spill at all (spec §4.3:
// "a final-only case ... must skip spill entirely").
const defaultMaxInMemoryRows = 1 << 17

// SortOptions configures ExternalSort's memory/disk tradeoff.
type SortOptions struct {
	// MaxInMemoryRows bounds the buffer before a run is spilled. Zero
	// means defaultMaxInMemoryRows.
	MaxInMemoryRows int
	// TempDir is the directory spill runs are created under. Empty
	// means the OS default temp directory.
	TempDir string
}

func (o SortOptions) maxRows() int {
	if o.MaxInMemoryRows <= 0 {
		return defaultMaxInMemoryRows
	}
	return o.MaxInMemoryRows
}

// sortIter is the external sort stage: a buffered k-way merge. It fills
// an in-memory buffer, spills it to a sorted temp run when full, and
// repeats until upstream is exhausted; it then merges every spilled run
// together with the final in-memory buffer using a min-heap keyed on the
// sort key (reverse: max-heap). Sorting is not required to be stable
// (spec §4.3).
type sortIter struct {
	upstream row.Iter
	keys     []string
	reverse  bool
	opts     SortOptions

	started bool
	runs    []*spill.Run
	merge   *kwayMerge
}

// NewSort wraps upstream with an external, disk-spilling sort over keys.
func NewSort(upstream row.Iter, keys []string, reverse bool, opts SortOptions) row.Iter {
	return &sortIter{upstream: upstream, keys: keys, reverse: reverse, opts: opts}
}

func (s *sortIter) Next(ctx context.Context) (row.Row, error) {
	if !s.started {
		if err := s.start(ctx); err != nil {
			return nil, err
		}
	}
	return s.merge.Next(ctx)
}

func (s *sortIter) start(ctx context.Context) error {
	s.started = true
	maxRows := s.opts.maxRows()

	var buf []row.Row
	var iters []row.Iter

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := sortRows(buf, s.keys, s.reverse); err != nil {
			return err
		}
		run, err := spill.NewRun(s.opts.TempDir)
		if err != nil {
			return err
		}
		w, err := run.Writer()
		if err != nil {
			return err
		}
		for _, r := range buf {
			if err := w.WriteRow(r); err != nil {
				w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
		s.runs = append(s.runs, run)
		reader, err := run.Reader()
		if err != nil {
			return err
		}
		iters = append(iters, reader)
		buf = nil
		return nil
	}

	for {
		r, err := s.upstream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		buf = append(buf, r)
		if len(buf) >= maxRows {
			log.WithField("rows", len(buf)).Debug("spilling sort run")
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if len(s.runs) == 0 {
		// Final-only case: everything fit in memory, no spill needed.
		if err := sortRows(buf, s.keys, s.reverse); err != nil {
			return err
		}
		iters = []row.Iter{row.FromSlice(buf...)}
	} else if len(buf) > 0 {
		if err := sortRows(buf, s.keys, s.reverse); err != nil {
			return err
		}
		iters = append(iters, row.FromSlice(buf...))
	}

	merge, err := newKwayMerge(ctx, iters, s.keys, s.reverse)
	if err != nil {
		return err
	}
	s.merge = merge
	return nil
}

func (s *sortIter) Close(ctx context.Context) error {
	var firstErr error
	if s.merge != nil {
		if err := s.merge.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	// merge.Close already closed each run's reader; only the backing temp
	// file remains, which spill.Cleanup removes, logging rather than
	// failing the whole Close over a leftover spill file.
	for _, run := range s.runs {
		spill.Cleanup(ctx, nil, run)
	}
	if err := s.upstream.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// sortRows sorts rows in place by keys, ascending, reversed if reverse is
// true. Key extraction is computed once per row up front rather than
// inside the comparator.
func sortRows(rows []row.Row, keys []string, reverse bool) error {
	keyed := make([][]any, len(rows))
	for i, r := range rows {
		k, err := r.Key(keys)
		if err != nil {
			return err
		}
		keyed[i] = k
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.Slice(idx, func(a, b int) bool {
		cmp, err := row.CompareKeys(keyed[idx[a]], keyed[idx[b]])
		if err != nil {
			sortErr = err
			return false
		}
		if reverse {
			cmp = -cmp
		}
		return cmp < 0
	})
	if sortErr != nil {
		return sortErr
	}
	out := make([]row.Row, len(rows))
	for i, j := range idx {
		out[i] = rows[j]
	}
	copy(rows, out)
	return nil
}

// runCursor is one run participating in the k-way merge: the current
// head row/key, and whether the run is exhausted.
type runCursor struct {
	it        row.Iter
	cur       row.Row
	key       []any
	exhausted bool
}

func (c *runCursor) advance(ctx context.Context, keys []string) error {
	r, err := c.it.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.exhausted = true
			return nil
		}
		return err
	}
	key, err := r.Key(keys)
	if err != nil {
		return err
	}
	c.cur, c.key = r, key
	return nil
}

// cursorHeap implements container/heap over the live run cursors, ordered
// by the sort key. Grounded on other_examples' segmentio/parquet-go
// merge.go, which merges row groups the same way: a heap of per-group
// cursors, popping the least (or greatest, reversed) each step.
type cursorHeap struct {
	cursors []*runCursor
	keys    []string
	reverse bool
	err     error
}

func (h *cursorHeap) Len() int { return len(h.cursors) }

func (h *cursorHeap) Less(i, j int) bool {
	cmp, err := row.CompareKeys(h.cursors[i].key, h.cursors[j].key)
	if err != nil {
		h.err = err
		return false
	}
	if h.reverse {
		cmp = -cmp
	}
	return cmp < 0
}

func (h *cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *cursorHeap) Push(x any) { h.cursors = append(h.cursors, x.(*runCursor)) }

func (h *cursorHeap) Pop() any {
	n := len(h.cursors)
	c := h.cursors[n-1]
	h.cursors = h.cursors[:n-1]
	return c
}

// kwayMerge merges already-sorted row iterators into one sorted stream.
type kwayMerge struct {
	heap     *cursorHeap
	allIters []row.Iter
}

func newKwayMerge(ctx context.Context, iters []row.Iter, keys []string, reverse bool) (*kwayMerge, error) {
	h := &cursorHeap{keys: keys, reverse: reverse}
	for _, it := range iters {
		c := &runCursor{it: it}
		if err := c.advance(ctx, keys); err != nil {
			return nil, err
		}
		if !c.exhausted {
			h.cursors = append(h.cursors, c)
		}
	}
	heap.Init(h)
	if h.err != nil {
		return nil, h.err
	}
	return &kwayMerge{heap: h, allIters: iters}, nil
}

func (m *kwayMerge) Next(ctx context.Context) (row.Row, error) {
	if m.heap.Len() == 0 {
		return nil, io.EOF
	}
	top := m.heap.cursors[0]
	out := top.cur
	if err := top.advance(ctx, m.heap.keys); err != nil {
		return nil, err
	}
	if m.heap.err != nil {
		return nil, m.heap.err
	}
	if top.exhausted {
		heap.Pop(m.heap)
	} else {
		heap.Fix(m.heap, 0)
	}
	return out, nil
}

func (m *kwayMerge) Close(ctx context.Context) error {
	var firstErr error
	for _, it := range m.allIters {
		if err := it.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

