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

// Package pack implements the batch packer: it consumes an already
// ordered, deduplicated line stream and writes it out as N roughly
// equi-byte-sized batch files, recording the first line of each batch as
// a separator.
package pack

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/lineidx/internal/filesystem"
)

// LineSource yields the next line (including its trailing '\n') of an
// ordered, deduplicated stream. It returns io.EOF once exhausted.
type LineSource func() (string, error)

// Result is the outcome of a successful Pack call.
type Result struct {
	LastLine   string
	Separators []string
	Manifest   []string // batch file paths, in batch-number order
}

// Pack writes an ordered, unique line stream of totalBytes bytes into at
// most wantBatches batch files inside dir, named by
// filesystem.BatchFileName with maxBatches as the numbering-width
// ceiling. A closed(i) callback, if non-nil, is invoked once per batch
// file closed, with i the zero-based batch index.
//
// Batch i receives lines until the cumulative byte count consumed from
// the stream so far strictly exceeds floor(totalBytes*(i+1)/wantBatches);
// the line that crosses that threshold is carried over and becomes the
// first line (and separator) of batch i+1 instead of being written into
// batch i. Because the final batch's threshold equals totalBytes exactly,
// it always absorbs the rest of the stream without triggering an early
// cutoff. If the stream is exhausted before all wantBatches batches are
// opened, fewer batches are produced; Pack never creates an empty batch
// file.
func Pack(source LineSource, totalBytes int64, wantBatches int, maxBatches int, dir string, closed func(i int)) (*Result, error) {
	if wantBatches <= 0 {
		return nil, errors.New("pack: wantBatches must be positive")
	}

	firstLine, err := source()
	if err == io.EOF {
		return nil, errors.New("pack: empty input")
	}
	if err != nil {
		return nil, err
	}

	firstReplayed := false
	next := func() (string, error) {
		if !firstReplayed {
			firstReplayed = true
			return firstLine, nil
		}
		return source()
	}

	separators := []string{firstLine}
	var manifest []string
	var lastLine string
	var pending string
	var processedBytes int64
	exhausted := false

	for batchIndex := 0; batchIndex < wantBatches && !exhausted; batchIndex++ {
		limit := totalBytes * int64(batchIndex+1) / int64(wantBatches)
		path := filesystem.JoinPath(dir, filesystem.BatchFileName(batchIndex, maxBatches))
		w := filesystem.NewLineWriter(path)

		if batchIndex != 0 {
			separators = append(separators, pending)
			if err := w.Write(pending); err != nil {
				w.Close()
				return nil, err
			}
			lastLine = pending
		}

		for {
			line, rerr := next()
			if rerr == io.EOF {
				exhausted = true
				break
			}
			if rerr != nil {
				w.Close()
				return nil, rerr
			}
			processedBytes += int64(len(line))
			// The cutoff only ever applies once the batch already holds at
			// least one line: otherwise a single line wider than its whole
			// budget (possible when lines vary a lot in size) would close
			// the batch before anything was ever written to it, violating
			// the non-empty-batch invariant.
			if processedBytes > limit && w.Lines() > 0 {
				pending = line
				break
			}
			if err := w.Write(line); err != nil {
				w.Close()
				return nil, err
			}
			lastLine = line
		}

		if err := w.Close(); err != nil {
			return nil, err
		}
		manifest = append(manifest, path)
		if closed != nil {
			closed(batchIndex)
		}
	}

	return &Result{LastLine: lastLine, Separators: separators, Manifest: manifest}, nil
}
