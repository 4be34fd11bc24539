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

package filesystem

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
)

// SplitToBatches splits the file at path into at most n roughly
// equi-byte-sized chunk files inside dir, independent of any index. It is
// a standalone utility; unlike the packer (internal/pack) it does not
// collect separators or deduplicate, it just cuts a byte stream into up to
// n pieces along line boundaries. A chunk that would hold no lines is not
// created, so an empty file yields no chunks.
func SplitToBatches(path, dir string, n int) ([]string, error) {
	if n <= 0 {
		return nil, errors.New("SplitToBatches: n must be positive")
	}
	total, _, err := CountBytesAndLines(path)
	if err != nil {
		return nil, err
	}
	return splitFile(path, dir, func(i int) int64 {
		return total * int64(i+1) / int64(n)
	}, n)
}

// SplitToSize splits the file at path into chunk files inside dir of
// about size bytes each. Chunk i ends at the last line boundary not past
// size*(i+1) bytes from the start of the file, so a chunk may exceed size
// by up to one line when the chunk before it ended early; the final chunk
// may be smaller.
func SplitToSize(path, dir string, size Size) ([]string, error) {
	if size.Bytes() <= 0 {
		return nil, errors.New("SplitToSize: size must be positive")
	}
	return splitFile(path, dir, func(i int) int64 {
		return size.Bytes() * int64(i+1)
	}, -1)
}

// splitFile drives both SplitToBatches and SplitToSize. limitAt(i) must
// return the cumulative byte budget after chunk i; maxChunks bounds the
// loop for SplitToBatches (-1 means unbounded, used by SplitToSize).
func splitFile(path, dir string, limitAt func(i int) int64, maxChunks int) ([]string, error) {
	r, err := OpenLineReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	base := filepath.Base(path)
	var outputs []string
	var processed int64
	chunkIndex := 0
	var pending string

	newChunk := func() *LineWriter {
		name := JoinPath(dir, fmt.Sprintf("%s.%d.batch", base, chunkIndex))
		outputs = append(outputs, name)
		return NewLineWriter(name)
	}

	for {
		if maxChunks >= 0 && chunkIndex >= maxChunks {
			break
		}
		w := newChunk()
		limit := limitAt(chunkIndex)
		if pending != "" {
			if err := w.Write(pending); err != nil {
				return nil, err
			}
			processed += int64(len(pending))
			pending = ""
		}
		var eof bool
		for {
			line, rerr := r.ReadLine()
			if line == "" && rerr == io.EOF {
				eof = true
				break
			}
			if rerr != nil && rerr != io.EOF {
				return nil, rerr
			}
			if processed+int64(len(line)) > limit {
				pending = line
				break
			}
			if err := w.Write(line); err != nil {
				return nil, err
			}
			processed += int64(len(line))
			if rerr == io.EOF {
				eof = true
				break
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		if w.Lines() == 0 {
			outputs = outputs[:len(outputs)-1]
		}
		chunkIndex++
		if eof && pending == "" {
			break
		}
	}
	return outputs, nil
}
