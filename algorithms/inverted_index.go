package algorithms

import (
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/ops"
)

// InvertedIndex builds a graph computing TF-IDF for every (word, document)
// pair in the input stream named inputStreamName, keeping the top 3
// documents per word by score. Grounded on inverted_index_graph: splitting the
// text once and branching it into a document-frequency leg (count_idf) and
// a term-frequency leg (tf), each following the original's join/map
// sequence before the two legs are joined back together.
func InvertedIndex(inputStreamName, docColumn, textColumn, resultColumn string) *graph.Graph {
	return invertedIndexFrom(graph.FromNamedInput(inputStreamName), docColumn, textColumn, resultColumn)
}

// InvertedIndexFromFile is InvertedIndex reading its input from a file.
func InvertedIndexFromFile(path string, parse graph.LineParser, docColumn, textColumn, resultColumn string) *graph.Graph {
	return invertedIndexFrom(graph.FromFile(path, parse), docColumn, textColumn, resultColumn)
}

func invertedIndexFrom(source *graph.Graph, docColumn, textColumn, resultColumn string) *graph.Graph {
	splitWord := source.Clone().
		Map(ops.FilterPunctuation{Col: textColumn}).
		Map(ops.LowerCase{Col: textColumn}).
		Map(ops.Split{Col: textColumn})

	countDocs := source.Clone().
		Reduce(ops.Count{Out: "count_docs"}, nil)

	countIDF := splitWord.Clone().
		Sort([]string{textColumn, docColumn}, false).
		Reduce(ops.FirstReducer{}, []string{textColumn, docColumn}).
		Sort([]string{textColumn}, false).
		Reduce(ops.Count{Out: "words_count"}, []string{textColumn}).
		Join(ops.InnerJoiner{}, countDocs, nil).
		Map(ops.Function{Col: "words_count", Fn: reciprocal}).
		Map(ops.Product{Cols: []string{"words_count", "count_docs"}, Result: "idf"}).
		Map(ops.Function{Col: "idf", Fn: naturalLog})

	tf := splitWord.
		Sort([]string{docColumn}, false).
		Reduce(ops.TermFrequency{WordsCol: textColumn, Out: "tf"}, []string{docColumn}).
		Sort([]string{textColumn}, false)

	return tf.
		Join(ops.InnerJoiner{}, countIDF, []string{textColumn}).
		Map(ops.Product{Cols: []string{"idf", "tf"}, Result: resultColumn}).
		Map(ops.Project{Cols: []string{docColumn, textColumn, resultColumn}}).
		Reduce(ops.TopN{Col: resultColumn, N: 3}, []string{textColumn})
}
