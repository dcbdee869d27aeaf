// Package graph implements the computational-graph model: the ordered
// stage alphabet (ReadFromFile, ReadFromIterFactory, Map, Reduce, Sort,
// Join), the chained builder, and the pull-based executor that resolves
// multi-input (join) execution at run time. It mirrors the role
// engine.go + sql/plan play in the teacher: a plan tree built by a
// fluent builder, walked once at execution time to produce the row
// stream that actually drives everything (pull-based, spec §9).
package graph

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/compgraph/compgraph/exec"
	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

var (
	// ErrEmptyGraph is returned when Run is called on a Graph with no
	// source stage.
	ErrEmptyGraph = errors.New("compgraph: graph has no source stage")
	// ErrUnknownInput is returned (wrapped with the input's name) when a
	// ReadFromIterFactory source references a name Run's Inputs doesn't
	// provide.
	ErrUnknownInput = errors.New("compgraph: unknown named input")
	// ErrJoinSourceMismatch guards the invariant that the number of Join
	// stages equals len(joinSources); it should be unreachable given the
	// builder always keeps the two in lockstep, but Run checks it
	// eagerly rather than trusting construction silently held.
	ErrJoinSourceMismatch = errors.New("compgraph: join stage / join source count mismatch")
)

func wrapUnknownInput(name string) error {
	return errors.Wrapf(ErrUnknownInput, "%q", name)
}

// Graph is an ordered list of stage operators plus a parallel list of
// sub-graphs providing the right-hand input of each Join stage, in the
// same order the Join stages appear. Building a Graph is pure and
// side-effect-free; all execution happens in Run.
type Graph struct {
	stages      []stage
	joinSources []*Graph
}

// FromNamedInput binds a new Graph's source to a name the caller supplies
// a row sequence factory for at Run time.
func FromNamedInput(name string) *Graph {
	return &Graph{stages: []stage{&sourceNamedInput{inputName: name}}}
}

// FromFile constructs a new Graph reading lines from path, parsed into
// rows by parse.
func FromFile(path string, parse LineParser) *Graph {
	return &Graph{stages: []stage{&sourceFile{path: path, parser: parse}}}
}

// Map appends a Map stage using mapper.
func (g *Graph) Map(mapper ops.Mapper) *Graph {
	g.stages = append(g.stages, &mapStage{mapper: mapper})
	return g
}

// Reduce appends a Reduce stage grouping on keys with reducer.
func (g *Graph) Reduce(reducer ops.Reducer, keys []string) *Graph {
	g.stages = append(g.stages, &reduceStage{reducer: reducer, keys: keys})
	return g
}

// Sort appends an external-sort stage over keys. opts is optional;
// passing none uses exec's defaults.
func (g *Graph) Sort(keys []string, reverse bool, opts ...exec.SortOptions) *Graph {
	var o exec.SortOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	g.stages = append(g.stages, &sortStage{keys: keys, reverse: reverse, opts: o})
	return g
}

// Join appends a Join stage using joiner over keys, with other providing
// the right-hand input. other is snapshotted (Clone) at this point: later
// mutation of the caller's other variable must not reach back into this
// Graph, per spec §4.5's no-aliasing requirement for sub-graph
// composition.
func (g *Graph) Join(joiner ops.Joiner, other *Graph, keys []string) *Graph {
	idx := len(g.joinSources)
	g.stages = append(g.stages, &joinStage{joiner: joiner, keys: keys, sourceIndex: idx})
	g.joinSources = append(g.joinSources, other.Clone())
	return g
}

// Clone returns a deep-enough copy of g: a Graph whose stage and
// join-source slices share no backing array with g's, so further mutation
// of either copy (via Map/Reduce/Sort/Join) cannot affect the other. This
// is what lets one Graph be branched into several independent downstream
// pipelines (as the algorithms package's inverted-index and PMI graphs
// do), mirroring the original's repeated use of deepcopy(graph).
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	stages := make([]stage, len(g.stages))
	copy(stages, g.stages)
	joinSources := make([]*Graph, len(g.joinSources))
	for i, js := range g.joinSources {
		joinSources[i] = js.Clone()
	}
	return &Graph{stages: stages, joinSources: joinSources}
}

// Run executes the graph against the given named inputs and returns the
// resulting lazy row sequence. Run does not mutate g, so the same Graph
// may be run more than once, each execution independent. Consuming the
// returned row.Iter is what actually drives every wrapped stage
// (pull-based; spec §9).
func (g *Graph) Run(ctx context.Context, inputs Inputs) (row.Iter, error) {
	if len(g.stages) == 0 {
		return nil, ErrEmptyGraph
	}
	joinCount := 0
	for _, st := range g.stages {
		if _, ok := st.(*joinStage); ok {
			joinCount++
		}
	}
	if joinCount != len(g.joinSources) {
		return nil, ErrJoinSourceMismatch
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "compgraph.Graph.Run")
	handedOff := false
	defer func() {
		if !handedOff {
			span.Finish()
		}
	}()

	cur, err := runStageTraced(ctx, g.stages[0], inputs, nil)
	if err != nil {
		return nil, errors.Wrap(err, g.stages[0].name())
	}

	for _, st := range g.stages[1:] {
		if js, ok := st.(*joinStage); ok {
			sourceGraph := g.joinSources[js.sourceIndex]
			right, err := sourceGraph.Run(ctx, inputs)
			if err != nil {
				return nil, errors.Wrap(err, "Join source")
			}
			cur = exec.NewJoin(cur, right, js.joiner, js.keys)
			continue
		}
		cur, err = runStageTraced(ctx, st, inputs, cur)
		if err != nil {
			return nil, errors.Wrap(err, st.name())
		}
	}

	handedOff = true
	return tracedIter{inner: cur, span: span}, nil
}

// tracedIter closes the run's root span when the caller closes the
// returned sequence, so a span covers exactly one Run's lifetime
// regardless of how far the caller actually pulled.
type tracedIter struct {
	inner row.Iter
	span  opentracing.Span
}

func (t tracedIter) Next(ctx context.Context) (row.Row, error) { return t.inner.Next(ctx) }

func (t tracedIter) Close(ctx context.Context) error {
	err := t.inner.Close(ctx)
	t.span.Finish()
	return err
}

var log = logrus.WithField("component", "graph")
