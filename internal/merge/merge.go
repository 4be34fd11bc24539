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

// Package merge implements the k-way, duplicate-eliminating merge sorter:
// it takes K pre-sorted input files and produces up to a requested number
// of output files holding the globally sorted, deduplicated union,
// rebucketed to roughly equal line counts.
package merge

import (
	"container/heap"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
	"github.com/shenwei356/lineidx/internal/filesystem"
	"github.com/twotwotwo/sorts/sortutil"
)

// linesParseFunc hands breader back each line completely unmodified, so
// that blank lines survive the buffered read the same way they would
// under filesystem.ReadAllLines; breader's own default reader discards
// them.
func linesParseFunc(line string) (interface{}, bool, error) {
	return line, true, nil
}

// readLinesBuffered loads every line of path into memory using breader's
// chunked, double-buffered reader rather than a single bufio.Scanner
// pass. Gzip-compressed inputs fall back to filesystem.ReadAllLines,
// since breader's reader has no gzip-detection of its own.
func readLinesBuffered(path string) ([]string, error) {
	gzipped, err := filesystem.IsGzipFile(path)
	if err != nil {
		return nil, err
	}
	if gzipped {
		return filesystem.ReadAllLines(path)
	}

	reader, err := breader.NewBufferedReader(path, 8, 100, linesParseFunc)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var lines []string
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrapf(chunk.Err, "reading %s", path)
		}
		for _, data := range chunk.Data {
			line := data.(string)
			if len(line) == 0 || line[len(line)-1] != '\n' {
				line += "\n"
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// entry is one source's current head line, tagged with its source index
// so ties between equal lines are broken by source order, making the
// merge deterministic.
type entry struct {
	line   string
	source int
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].line != h[j].line {
		return h[i].line < h[j].line
	}
	return h[i].source < h[j].source
}
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Result is the outcome of a successful Merge call.
type Result struct {
	Outputs []string // output file paths, in file-number order
}

// SortFilesSeparately reads each file at paths fully into memory, sorts
// its lines ascending independent of every other file, and writes the
// sorted copy into scratchDir (emptied first), returning the new paths in
// the same order as paths. It is the preprocessing step Merge's
// individually-sorted-input precondition assumes; unlike Merge it makes
// no claim about cross-file order.
func SortFilesSeparately(paths []string, scratchDir string) ([]string, error) {
	if len(paths) == 0 {
		return nil, errors.New("merge: no input files")
	}
	if err := filesystem.MakeEmptyDir(scratchDir); err != nil {
		return nil, err
	}

	sorted := make([]string, len(paths))
	for i, p := range paths {
		lines, err := readLinesBuffered(p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
		sortutil.Strings(lines)
		out := filesystem.JoinPath(scratchDir, filesystem.BatchFileName(i, len(paths))+".sorted")
		if err := filesystem.WriteLines(out, lines); err != nil {
			return nil, err
		}
		sorted[i] = out
	}
	return sorted, nil
}

// Merge reads the K pre-sorted, cross-file-ordered-or-not input files at
// inputPaths (each individually sorted ascending; files need not be
// ordered relative to each other, Merge itself establishes that) and
// writes at most outputCount zero-padded hex-named output files into outDir (see
// filesystem.BatchFileName). No output file is written into the same
// directory as any input file; callers are responsible for choosing an
// outDir distinct from every input's directory.
//
// Deduplication is global: a line repeated within or across input files
// is written exactly once, in its first position in sorted order. Output
// file j holds approximately totalUnique*(j+1)/outputCount -
// totalUnique*j/outputCount lines, where totalUnique is the deduplicated
// line count; the counts differ by at most one and the final output file
// is never shorter than the others. When totalUnique is smaller than
// outputCount, each output file holds one line and only totalUnique
// files are written. Finding totalUnique up front
// costs one extra read-only pass over the inputs, the same two-pass shape
// the packer (internal/pack) uses to size its own batches exactly.
func Merge(inputPaths []string, outDir string, outputCount int) (*Result, error) {
	if len(inputPaths) == 0 {
		return nil, errors.New("merge: no input files")
	}
	if outputCount <= 0 {
		return nil, errors.New("merge: outputCount must be positive")
	}

	var totalUnique int64
	if err := kwayMerge(inputPaths, func(string) error {
		totalUnique++
		return nil
	}); err != nil {
		return nil, err
	}

	var outputs []string
	var w *filesystem.LineWriter
	var emitted int64
	fileNumber := 0
	limit := totalUnique * int64(fileNumber+1) / int64(outputCount)

	openNext := func() error {
		path := filesystem.JoinPath(outDir, filesystem.BatchFileName(fileNumber, outputCount))
		w = filesystem.NewLineWriter(path)
		outputs = append(outputs, path)
		return nil
	}
	closeCurrent := func() error {
		if w == nil {
			return nil
		}
		err := w.Close()
		w = nil
		return err
	}

	if err := openNext(); err != nil {
		return nil, err
	}

	err := kwayMerge(inputPaths, func(line string) error {
		if err := w.Write(line); err != nil {
			return err
		}
		emitted++
		if emitted >= limit && emitted < totalUnique && fileNumber+1 < outputCount {
			if err := closeCurrent(); err != nil {
				return err
			}
			fileNumber++
			limit = totalUnique * int64(fileNumber+1) / int64(outputCount)
			if err := openNext(); err != nil {
				return err
			}
		}
		return nil
	})
	if cerr := closeCurrent(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	return &Result{Outputs: outputs}, nil
}

// kwayMerge drives one full k-way merge pass over inputPaths, calling
// onLine once per globally deduplicated line in ascending order. It opens
// and closes its own readers, so calling it twice re-reads every input
// from the start.
func kwayMerge(inputPaths []string, onLine func(line string) error) error {
	readers := make([]*filesystem.LineReader, len(inputPaths))
	for i, p := range inputPaths {
		r, err := filesystem.OpenLineReader(p)
		if err != nil {
			for _, opened := range readers[:i] {
				opened.Close()
			}
			return err
		}
		readers[i] = r
	}
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()

	h := &entryHeap{}
	heap.Init(h)
	for i, r := range readers {
		line, err := r.ReadLine()
		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "reading %s", inputPaths[i])
		}
		if line != "" {
			heap.Push(h, entry{line: line, source: i})
		}
	}

	var lastEmitted string
	haveLastEmitted := false

	for h.Len() > 0 {
		e := heap.Pop(h).(entry)

		if !haveLastEmitted || e.line != lastEmitted {
			if err := onLine(e.line); err != nil {
				return err
			}
			lastEmitted = e.line
			haveLastEmitted = true
		}

		// Advance this source, skipping immediate repeats of what we
		// just emitted (duplicates adjacent on the same source).
		for {
			next, err := readers[e.source].ReadLine()
			if err != nil && err != io.EOF {
				return errors.Wrapf(err, "reading %s", inputPaths[e.source])
			}
			if next == "" {
				break // exhausted; do not requeue this source
			}
			if haveLastEmitted && next == lastEmitted {
				continue
			}
			heap.Push(h, entry{line: next, source: e.source})
			break
		}
	}

	return nil
}
