package graph

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/row"
)

// LineParser turns one line of text (without its trailing newline) into a
// Row. It is the only wire-level contract the core mandates (spec §6); a
// matching emitter is the caller's responsibility.
type LineParser func(line string) (row.Row, error)

type sourceFile struct {
	path   string
	parser LineParser
}

func (s *sourceFile) name() string { return "ReadFromFile(" + s.path + ")" }

func (s *sourceFile) run(ctx context.Context, inputs Inputs, _ row.Iter) (row.Iter, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "compgraph: opening %s", s.path)
	}
	return &fileRowIter{file: f, scanner: bufio.NewScanner(f), parser: s.parser}, nil
}

// fileRowIter parses a file's lines into rows, one row.Iter.Next call at a
// time, so the file is never materialized in memory.
type fileRowIter struct {
	file    *os.File
	scanner *bufio.Scanner
	parser  LineParser
}

func (f *fileRowIter) Next(ctx context.Context) (row.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "compgraph: reading file source")
		}
		return nil, io.EOF
	}
	r, err := f.parser(f.scanner.Text())
	if err != nil {
		return nil, errors.Wrap(err, "compgraph: parsing line")
	}
	return r, nil
}

func (f *fileRowIter) Close(ctx context.Context) error {
	return f.file.Close()
}
