package graph

import (
	"context"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/exec"
	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

// stage is one node of a Graph's operator alphabet: ReadFromFile,
// ReadFromIterFactory, Map, Reduce, Sort, Join (spec §2.5). Source stages
// ignore upstream; every other stage wraps it.
type stage interface {
	run(ctx context.Context, inputs Inputs, upstream row.Iter) (row.Iter, error)
	name() string
}

// Inputs is the named-input table a Graph.Run call is parameterized by:
// each entry is a factory producing a fresh row.Iter, invoked once per
// ReadFromIterFactory source that references it (including once per
// Graph.Run of a reused sub-graph, so every execution is independent).
type Inputs map[string]func() row.Iter

type sourceNamedInput struct {
	inputName string
}

func (s *sourceNamedInput) name() string { return "ReadFromIterFactory(" + s.inputName + ")" }

func (s *sourceNamedInput) run(ctx context.Context, inputs Inputs, _ row.Iter) (row.Iter, error) {
	factory, ok := inputs[s.inputName]
	if !ok {
		return nil, wrapUnknownInput(s.inputName)
	}
	return factory(), nil
}

type mapStage struct {
	mapper ops.Mapper
}

func (s *mapStage) name() string { return "Map" }

func (s *mapStage) run(ctx context.Context, inputs Inputs, upstream row.Iter) (row.Iter, error) {
	return exec.NewMap(upstream, s.mapper), nil
}

type reduceStage struct {
	reducer ops.Reducer
	keys    []string
}

func (s *reduceStage) name() string { return "Reduce" }

func (s *reduceStage) run(ctx context.Context, inputs Inputs, upstream row.Iter) (row.Iter, error) {
	return exec.NewReduce(upstream, s.reducer, s.keys), nil
}

type sortStage struct {
	keys    []string
	reverse bool
	opts    exec.SortOptions
}

func (s *sortStage) name() string { return "Sort" }

func (s *sortStage) run(ctx context.Context, inputs Inputs, upstream row.Iter) (row.Iter, error) {
	return exec.NewSort(upstream, s.keys, s.reverse, s.opts), nil
}

// joinStage is handled specially by Graph.Run (it needs to execute a
// paired sub-graph for its right-hand input), but still implements stage
// so it can live in the same ordered stages slice as everything else.
type joinStage struct {
	joiner      ops.Joiner
	keys        []string
	sourceIndex int
}

func (s *joinStage) name() string { return "Join" }

func (s *joinStage) run(ctx context.Context, inputs Inputs, upstream row.Iter) (row.Iter, error) {
	return nil, errors.New("compgraph: joinStage must be driven by Graph.Run, not run directly")
}
