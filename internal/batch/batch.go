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

// Package batch implements a single sorted, deduplicated batch file and a
// read-only collection of batches indexed by batch number.
package batch

import (
	"github.com/shenwei356/lineidx/internal/filesystem"
	"github.com/shenwei356/lineidx/internal/search"
)

// Batch exposes membership and boundary queries over one on-disk sorted,
// unique run of lines. Each query opens and reads the file it needs and
// closes it on every exit path; nothing is held open across calls.
type Batch struct {
	path    string
	first   string
	firstOK bool
	last    string
	lastOK  bool
}

// New returns a Batch backed by the file at path. The file is not opened
// until the first query.
func New(path string) *Batch {
	return &Batch{path: path}
}

// Path returns the batch's backing file path.
func (b *Batch) Path() string { return b.path }

// Smallest returns the first (smallest) line of the batch, caching it
// after the first read.
func (b *Batch) Smallest() (string, error) {
	if b.firstOK {
		return b.first, nil
	}
	line, err := filesystem.ReadFirstLine(b.path)
	if err != nil {
		return "", err
	}
	b.first, b.firstOK = line, true
	return line, nil
}

// Greatest returns the last (greatest) line of the batch, caching it
// after the first read.
func (b *Batch) Greatest() (string, error) {
	if b.lastOK {
		return b.last, nil
	}
	line, err := filesystem.ReadLastLine(b.path)
	if err != nil {
		return "", err
	}
	b.last, b.lastOK = line, true
	return line, nil
}

// lines loads every line of the batch into memory. Each lookup on a batch
// reads only that batch's file, never any other batch.
func (b *Batch) lines() ([]string, error) {
	return filesystem.ReadAllLines(b.path)
}

// Contains reports whether line is present in the batch.
func (b *Batch) Contains(line string) (bool, error) {
	lines, err := b.lines()
	if err != nil {
		return false, err
	}
	return search.Contains(line, lines), nil
}

// Floor returns the lexicographically greatest line in the batch that is
// not greater than line, or ("", false) if every line is greater.
func (b *Batch) Floor(line string) (string, bool, error) {
	lines, err := b.lines()
	if err != nil {
		return "", false, err
	}
	i := search.FloorIndex(line, lines)
	if i < 0 {
		return "", false, nil
	}
	return lines[i], true, nil
}

// Ceil returns the lexicographically smallest line in the batch that is
// not smaller than line, or ("", false) if every line is smaller.
func (b *Batch) Ceil(line string) (string, bool, error) {
	lines, err := b.lines()
	if err != nil {
		return "", false, err
	}
	i := search.CeilIndex(line, lines)
	if i < 0 {
		return "", false, nil
	}
	return lines[i], true, nil
}

// Storage is a read-only array of batches indexed by batch number,
// constructed from the storage manifest written by the packer.
type Storage struct {
	batches []*Batch
}

// NewStorage builds a Storage over the given batch file paths, in
// batch-number order.
func NewStorage(paths []string) *Storage {
	batches := make([]*Batch, len(paths))
	for i, p := range paths {
		batches[i] = New(p)
	}
	return &Storage{batches: batches}
}

// Get returns the batch numbered i.
func (s *Storage) Get(i int) *Batch { return s.batches[i] }

// Len returns the number of batches.
func (s *Storage) Len() int { return len(s.batches) }

// Paths returns the backing file path of every batch, in batch-number
// order (the storage manifest).
func (s *Storage) Paths() []string {
	paths := make([]string, len(s.batches))
	for i, b := range s.batches {
		paths[i] = b.Path()
	}
	return paths
}
