// Package algorithms wires the core row/ops/exec/graph machinery into the
// handful of concrete pipelines the original compgraph shipped as
// worked examples: word count, TF-IDF, pointwise mutual information, and
// average road speed. Each constructor returns an unexecuted *graph.Graph;
// callers Run it with the named inputs or file paths it expects.
package algorithms

import (
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/ops"
)

// WordCount builds a graph counting occurrences of each word in
// textColumn across every row of the input stream named inputStreamName,
// emitting {textColumn, countColumn} rows sorted by (count, word)
// ascending. Grounded on word_count_graph.
func WordCount(inputStreamName, textColumn, countColumn string) *graph.Graph {
	return wordCountFrom(graph.FromNamedInput(inputStreamName), textColumn, countColumn)
}

// WordCountFromFile is WordCount reading its input from a file instead of
// a named in-memory input.
func WordCountFromFile(path string, parse graph.LineParser, textColumn, countColumn string) *graph.Graph {
	return wordCountFrom(graph.FromFile(path, parse), textColumn, countColumn)
}

func wordCountFrom(g *graph.Graph, textColumn, countColumn string) *graph.Graph {
	return g.
		Map(ops.FilterPunctuation{Col: textColumn}).
		Map(ops.LowerCase{Col: textColumn}).
		Map(ops.Split{Col: textColumn}).
		Sort([]string{textColumn}, false).
		Reduce(ops.Count{Out: countColumn}, []string{textColumn}).
		Sort([]string{countColumn, textColumn}, false)
}
