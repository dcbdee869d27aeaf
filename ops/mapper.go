// Package ops holds the three row-level operator capabilities a pipeline
// stage can be parameterized with — Mapper, Reducer, Joiner — and the
// standard library of each that exec and algorithms build on.
//
// Implementations are value objects: they carry configuration, never
// mutable state between invocations, so the same Mapper/Reducer/Joiner
// value is safe to reuse across Graph.Run calls and across goroutines that
// only ever build graphs concurrently (never run them concurrently on the
// same Graph without separate executions, per spec §5).
package ops

import (
	"github.com/compgraph/compgraph/row"
)

// Mapper transforms one input row into zero or more output rows. A Mapper
// must not read or mutate any row other than its argument, and must be
// safe to call repeatedly (no per-call side effects beyond its return
// value).
type Mapper interface {
	Map(r row.Row) ([]row.Row, error)
}

// MapperFunc adapts a plain function to the Mapper interface, the way the
// teacher's expression package adapts functions to expression.Expression
// via small function-typed wrappers.
type MapperFunc func(r row.Row) ([]row.Row, error)

func (f MapperFunc) Map(r row.Row) ([]row.Row, error) { return f(r) }

// DummyMapper emits exactly the row it was given.
type DummyMapper struct{}

func (DummyMapper) Map(r row.Row) ([]row.Row, error) { return []row.Row{r}, nil }
