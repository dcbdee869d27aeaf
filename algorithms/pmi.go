package algorithms

import (
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/ops"
	"github.com/compgraph/compgraph/row"
)

// PMI builds a graph giving, for every document in the input stream named
// inputStreamName, the top 10 words ranked by pointwise mutual
// information against the whole corpus. Words shorter than 5 characters
// or occurring fewer than twice in a document are dropped before scoring,
// matching pmi_graph.
func PMI(inputStreamName, docColumn, textColumn, resultColumn string) *graph.Graph {
	return pmiFrom(graph.FromNamedInput(inputStreamName), docColumn, textColumn, resultColumn)
}

// PMIFromFile is PMI reading its input from a file.
func PMIFromFile(path string, parse graph.LineParser, docColumn, textColumn, resultColumn string) *graph.Graph {
	return pmiFrom(graph.FromFile(path, parse), docColumn, textColumn, resultColumn)
}

func pmiFrom(source *graph.Graph, docColumn, textColumn, resultColumn string) *graph.Graph {
	splitWord := source.
		Map(ops.FilterPunctuation{Col: textColumn}).
		Map(ops.LowerCase{Col: textColumn}).
		Map(ops.Split{Col: textColumn})

	filtered := splitWord.
		Sort([]string{docColumn, textColumn}, false).
		Reduce(ops.Count{Out: "word_count"}, []string{docColumn, textColumn}).
		Map(ops.Filter{Pred: longEnoughWord(textColumn)}).
		Map(ops.Filter{Pred: frequentEnough("word_count")})

	tfInDoc := filtered.Clone().
		Reduce(ops.TermFrequency{WordsCol: textColumn, Out: "tf_in_doc", CountCol: "word_count"}, []string{docColumn}).
		Sort([]string{textColumn}, false)

	tfInAllDocs := filtered.
		Reduce(ops.TermFrequency{WordsCol: textColumn, Out: "tf_in_all_docs", CountCol: "word_count"}, nil).
		Sort([]string{textColumn}, false)

	return tfInDoc.
		Join(ops.InnerJoiner{}, tfInAllDocs, []string{textColumn}).
		Map(ops.Function{Col: "tf_in_all_docs", Fn: reciprocal}).
		Map(ops.Product{Cols: []string{"tf_in_doc", "tf_in_all_docs"}, Result: resultColumn}).
		Map(ops.Function{Col: resultColumn, Fn: naturalLog}).
		Map(ops.Project{Cols: []string{resultColumn, docColumn, textColumn}}).
		Sort([]string{textColumn}, false).
		Sort([]string{resultColumn}, true).
		Sort([]string{docColumn}, false).
		Reduce(ops.TopN{Col: resultColumn, N: 10}, []string{docColumn})
}

func longEnoughWord(textColumn string) func(row.Row) bool {
	return func(r row.Row) bool {
		v, err := r.Get(textColumn)
		if err != nil {
			return false
		}
		s, ok := v.(string)
		return ok && len(s) > 4
	}
}

func frequentEnough(countColumn string) func(row.Row) bool {
	return func(r row.Row) bool {
		v, err := r.Get(countColumn)
		if err != nil {
			return false
		}
		f, err := row.AsFloat(v)
		return err == nil && f >= 2
	}
}
