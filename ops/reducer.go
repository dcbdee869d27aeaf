package ops

import (
	"context"

	"github.com/compgraph/compgraph/row"
)

// Reducer sees all rows of exactly one group (rows sharing the same
// group-key value, in upstream order) and emits that group's output rows.
// A Reducer may assume the input sequence is non-empty — exec.Reduce never
// invokes a Reducer for an empty group — and may consume the group
// partially; exec.Reduce drains whatever is left before advancing to the
// next group.
type Reducer interface {
	Reduce(ctx context.Context, groupKey []string, rows row.Iter) ([]row.Row, error)
}
