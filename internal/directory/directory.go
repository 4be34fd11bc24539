// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package directory reads and writes the sparse in-memory index
// directory: the (last_line, separators) pair that lets a lookup locate
// the batch a line would live in without touching any batch file, plus
// the on-disk .index/.storage sidecars that persist it.
package directory

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/shenwei356/lineidx/internal/filesystem"
	"github.com/shenwei356/lineidx/internal/search"
)

// IndexFileName and StorageFileName are the sidecar file names inside a
// resource directory.
const (
	IndexFileName   = ".index"
	StorageFileName = ".storage"
)

// Directory is the sparse in-memory directory over a set of batch files:
// the last line of the whole dataset, and the first line of each batch
// (its separator). A query line compares against separators only, never
// against full batch contents, to find which batch it would belong to.
type Directory struct {
	LastLine   string
	Separators []string
}

// New builds a Directory from its two components.
func New(lastLine string, separators []string) *Directory {
	return &Directory{LastLine: lastLine, Separators: separators}
}

// BatchFor returns the batch number a line would belong to, or (-1,
// false) if line sorts before the first separator or after LastLine (or
// there are no separators), in which case it cannot be present.
func (d *Directory) BatchFor(line string) (int, bool) {
	if len(d.Separators) == 0 {
		return -1, false
	}
	if line > d.LastLine {
		return -1, false
	}
	i := search.FloorIndex(line, d.Separators)
	if i < 0 {
		return -1, false
	}
	return i, true
}

// WriteIndex writes the .index sidecar: last_line, then N, then N
// separator lines, each newline-terminated.
func WriteIndex(path string, d *Directory) error {
	lines := make([]string, 0, len(d.Separators)+2)
	lines = append(lines, ensureNewline(d.LastLine))
	lines = append(lines, strconv.Itoa(len(d.Separators))+"\n")
	for _, sep := range d.Separators {
		lines = append(lines, ensureNewline(sep))
	}
	return filesystem.WriteLines(path, lines)
}

// ReadIndex reads the .index sidecar at path.
func ReadIndex(path string) (*Directory, error) {
	lines, err := filesystem.ReadAllLines(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(lines) < 2 {
		return nil, errors.Errorf("%s: truncated index, want at least 2 lines, got %d", path, len(lines))
	}
	lastLine := lines[0]
	countLine := stripNewline(lines[1])
	n, err := strconv.Atoi(countLine)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid separator count %q", path, countLine)
	}
	if len(lines) != n+2 {
		return nil, errors.Errorf("%s: header declares %d separators, file has %d lines", path, n, len(lines)-2)
	}
	separators := append([]string(nil), lines[2:]...)
	return New(lastLine, separators), nil
}

// WriteStorage writes the .storage sidecar: one batch path per line, in
// batch-number order.
func WriteStorage(path string, batchPaths []string) error {
	lines := make([]string, len(batchPaths))
	for i, p := range batchPaths {
		lines[i] = p + "\n"
	}
	return filesystem.WriteLines(path, lines)
}

// ReadStorage reads the .storage sidecar at path, returning the batch
// paths in batch-number order.
func ReadStorage(path string) ([]string, error) {
	lines, err := filesystem.ReadAllLines(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	paths := make([]string, len(lines))
	for i, l := range lines {
		paths[i] = stripNewline(l)
	}
	return paths, nil
}

func ensureNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}

func stripNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}
