// Command compgraph runs the word-count pipeline over stdin, one line of
// free text per input row, and writes {word, count} pairs to stdout as the
// rows come off the graph. It exists to give the algorithms package a
// runnable entry point, the way the teacher's _example/main.go does for
// its server engine.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/compgraph/compgraph/algorithms"
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/row"
)

const (
	inputName   = "lines"
	textColumn  = "text"
	countColumn = "count"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("compgraph: word count failed")
	}
}

func run() error {
	ctx := context.Background()
	g := algorithms.WordCount(inputName, textColumn, countColumn)

	inputs := graph.Inputs{
		inputName: func() row.Iter { return stdinLines(os.Stdin) },
	}

	iter, err := g.Run(ctx, inputs)
	if err != nil {
		return err
	}
	defer iter.Close(ctx)

	enc := json.NewEncoder(os.Stdout)
	for {
		r, err := iter.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := enc.Encode(map[string]any(r)); err != nil {
			return err
		}
	}
}

// stdinLines wraps r as a row.Iter, one {text: <line>} row per line of
// input, matching word_count_graph's expected row shape.
func stdinLines(r *os.File) row.Iter {
	return &lineIter{scanner: bufio.NewScanner(r)}
}

type lineIter struct {
	scanner *bufio.Scanner
}

func (l *lineIter) Next(ctx context.Context) (row.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return row.Row{textColumn: l.scanner.Text()}, nil
}

func (l *lineIter) Close(ctx context.Context) error { return nil }
