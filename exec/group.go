// Package exec implements the streaming execution engine: grouping,
// Map, grouped Reduce, the sort-merge Join driver, and the disk-spilling
// ExternalSort stage that the graph package wires together.
package exec

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/compgraph/compgraph/row"
)

// Grouper partitions a row.Iter into maximal runs of consecutive rows
// sharing the same group-key value over keyCols, per spec: "Groups are
// defined by consecutive equal group-key values in a sequence." It assumes
// (and does not verify) that upstream is already ordered on keyCols.
type Grouper struct {
	upstream    row.Iter
	keyCols     []string
	pending     row.Row
	pendingKey  []any
	havePending bool
	eof         bool
	cur         *groupIter
}

// NewGrouper wraps upstream, which must already be sorted on keyCols.
func NewGrouper(upstream row.Iter, keyCols []string) *Grouper {
	return &Grouper{upstream: upstream, keyCols: keyCols}
}

// Next returns the key tuple and a lazy sub-sequence for the next group, or
// io.EOF once upstream is exhausted. Any rows left undrained in the
// previous group's sub-sequence are drained here before advancing, so
// callers (reducers, join-group consumers) are free to stop pulling a
// group's sub-sequence early.
func (g *Grouper) Next(ctx context.Context) ([]any, row.Iter, error) {
	if g.cur != nil {
		if err := drain(ctx, g.cur); err != nil {
			return nil, nil, err
		}
		g.cur = nil
	}

	if !g.havePending {
		if g.eof {
			return nil, nil, io.EOF
		}
		r, err := g.upstream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				g.eof = true
				return nil, nil, io.EOF
			}
			return nil, nil, err
		}
		key, err := r.Key(g.keyCols)
		if err != nil {
			return nil, nil, err
		}
		g.pending, g.pendingKey, g.havePending = r, key, true
	}

	key := g.pendingKey
	sub := &groupIter{g: g, key: key}
	g.cur = sub
	return key, sub, nil
}

// Close releases the upstream iterator.
func (g *Grouper) Close(ctx context.Context) error {
	return g.upstream.Close(ctx)
}

// drain exhausts it without interpreting its rows; Grouper.Next uses it to
// enforce the "previous group fully drained before advancing" invariant,
// which is what covers a reducer abandoning a group partway through.
func drain(ctx context.Context, it row.Iter) error {
	for {
		_, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// groupIter is the lazy sub-sequence handed out for one group. Pulling it
// past the group's last row stashes the first row of the next group on the
// parent Grouper and returns io.EOF.
type groupIter struct {
	g    *Grouper
	key  []any
	done bool
}

func (s *groupIter) Next(ctx context.Context) (row.Row, error) {
	if s.done {
		return nil, io.EOF
	}
	if s.g.havePending {
		r := s.g.pending
		s.g.havePending = false
		return r, nil
	}
	if s.g.eof {
		s.done = true
		return nil, io.EOF
	}
	r, err := s.g.upstream.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.g.eof = true
			s.done = true
			return nil, io.EOF
		}
		return nil, err
	}
	key, err := r.Key(s.g.keyCols)
	if err != nil {
		return nil, err
	}
	if !row.KeysEqual(key, s.key) {
		s.g.pending, s.g.pendingKey, s.g.havePending = r, key, true
		s.done = true
		return nil, io.EOF
	}
	return r, nil
}

func (s *groupIter) Close(ctx context.Context) error {
	s.done = true
	return nil
}

var log = logrus.WithField("component", "exec")
