package graph

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/compgraph/compgraph/row"
)

// runStageTraced runs st under a child span of ctx's active span, named
// after the stage. The span covers only the (cheap) call to st.run, which
// for every stage type just constructs a wrapping iterator — the actual
// row-by-row work happens later as the caller pulls from the returned
// row.Iter, outside any span here. Per-row tracing is deliberately not
// attempted: span overhead at that granularity would dominate the actual
// work for cheap stages like Map.
func runStageTraced(ctx context.Context, st stage, inputs Inputs, upstream row.Iter) (row.Iter, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "compgraph.stage."+st.name())
	defer span.Finish()
	out, err := st.run(ctx, inputs, upstream)
	if err != nil {
		span.SetTag("error", true)
	}
	return out, err
}
