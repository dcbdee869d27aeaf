package algorithms_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/algorithms"
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/row"
)

func TestInvertedIndexTopNPerWord(t *testing.T) {
	ctx := context.Background()
	g := algorithms.InvertedIndex("docs", "doc_id", "text", "tf_idf")

	inputs := graph.Inputs{
		"docs": func() row.Iter {
			return row.FromSlice(
				row.Row{"doc_id": "d1", "text": "cat dog cat"},
				row.Row{"doc_id": "d2", "text": "dog bird"},
				row.Row{"doc_id": "d3", "text": "cat bird fish"},
			)
		},
	}

	it, err := g.Run(ctx, inputs)
	require.NoError(t, err)
	got, err := row.Collect(ctx, it)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	perWord := map[string]int{}
	for _, r := range got {
		perWord[r["text"].(string)]++
		require.Contains(t, r, "doc_id")
		require.Contains(t, r, "tf_idf")
	}
	for word, n := range perWord {
		require.LessOrEqualf(t, n, 3, "word %q kept more than top-3 rows", word)
	}
}
