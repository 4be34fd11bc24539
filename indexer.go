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

// Package lineidx is a disk-backed, immutable index over a large set of
// text lines, supporting membership queries on inputs larger than
// available memory. An Indexer builds the on-disk batch files and
// sidecars; Load (or BuildForExistingData) produces an Engine bound to
// them for querying.
package lineidx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/lineidx/internal/batch"
	"github.com/shenwei356/lineidx/internal/directory"
	"github.com/shenwei356/lineidx/internal/filesystem"
	"github.com/shenwei356/lineidx/internal/merge"
	"github.com/shenwei356/lineidx/internal/pack"
	"github.com/twotwotwo/sorts/sortutil"
)

// Indexer owns one resource directory on disk: the batch files plus the
// .index/.storage sidecars. Only one Indexer should build into a given
// directory at a time; concurrent builds into the same directory produce
// undefined state, as do reads concurrent with a build.
type Indexer struct {
	dir     string
	options IndexerOptions
	sink    ProgressSink
}

// New returns an Indexer rooted at dir with the given options. options is
// validated immediately; a zero-value options fails Validate and New
// returns ErrConfigInvalid, so callers typically start from
// DefaultIndexerOptions.
func New(dir string, options IndexerOptions) (*Indexer, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Indexer{dir: dir, options: options}, nil
}

// WithProgress attaches a ProgressSink that future build operations
// report to. It returns the Indexer for chaining.
func (ix *Indexer) WithProgress(sink ProgressSink) *Indexer {
	ix.sink = sink
	return ix
}

// Dir returns the resource directory path.
func (ix *Indexer) Dir() string { return ix.dir }

// Index builds the resource directory from filePaths, which must already
// be individually sorted ascending and cross-file ordered: the greatest
// line of file k must be no greater than the smallest line of file k+1.
// Index does not verify this precondition; callers that cannot
// guarantee it should pre-sort with Sort first. The resource directory is
// emptied before the build starts.
func (ix *Indexer) Index(filePaths []string) error {
	if len(filePaths) == 0 {
		return ErrEmptyInput
	}

	var totalBytes int64
	var totalLines int64
	for _, p := range filePaths {
		empty, err := filesystem.IsEmpty(p)
		if err != nil {
			return err
		}
		if empty {
			return ErrEmptyInput
		}
		b, l, err := filesystem.CountBytesAndLines(p)
		if err != nil {
			return err
		}
		totalBytes += b
		totalLines += l
	}
	if totalLines == 0 {
		return ErrEmptyInput
	}

	if err := filesystem.MakeEmptyDir(ix.dir); err != nil {
		return err
	}

	n := ix.options.batchCount(totalLines)
	source := chainedLineSource(filePaths)
	return ix.pack(source, totalBytes, n)
}

// IndexLines builds the resource directory from lines, which must
// already be sorted ascending. A trailing '\n' is appended to any line
// missing one before it is written.
func (ix *Indexer) IndexLines(lines []string) error {
	if len(lines) == 0 {
		return ErrEmptyInput
	}

	normalized := make([]string, len(lines))
	var totalBytes int64
	for i, l := range lines {
		normalized[i] = normalizeLine(l)
		totalBytes += int64(len(normalized[i]))
	}

	if err := filesystem.MakeEmptyDir(ix.dir); err != nil {
		return err
	}

	n := ix.options.batchCount(int64(len(normalized)))
	i := 0
	source := pack.LineSource(func() (string, error) {
		if i >= len(normalized) {
			return "", io.EOF
		}
		line := normalized[i]
		i++
		return line, nil
	})
	return ix.pack(source, totalBytes, n)
}

func (ix *Indexer) pack(source pack.LineSource, totalBytes int64, n int) error {
	reporter := newProgressReporter(ix.sink, n)
	reporter.start()

	res, err := pack.Pack(source, totalBytes, n, ix.options.MaxFileCount, ix.dir, reporter.closed)
	if err != nil {
		return errors.Wrap(err, "packing batches")
	}
	if len(res.Manifest) == 0 {
		return ErrInternalInvariant
	}

	d := directory.New(res.LastLine, res.Separators)
	if err := directory.WriteIndex(filesystem.JoinPath(ix.dir, directory.IndexFileName), d); err != nil {
		return err
	}
	if err := directory.WriteStorage(filesystem.JoinPath(ix.dir, directory.StorageFileName), res.Manifest); err != nil {
		return err
	}

	reporter.done()
	return nil
}

// Sort takes filePaths in any order, each with lines in any order, sorts
// each file's lines independently, then merges the sorted copies into at
// most outputCount equi-line-count, globally deduplicated files inside
// outDir.
// This is the pre-processing step Index's cross-file-ordering precondition
// assumes; it touches no Indexer's resource directory, so it is a
// package-level function rather than a method.
func Sort(filePaths []string, outDir string, outputCount int) ([]string, error) {
	scratchDir := filesystem.JoinPath(outDir, ".sort-scratch")
	sortedPaths, err := merge.SortFilesSeparately(filePaths, scratchDir)
	if err != nil {
		return nil, errors.Wrap(err, "sorting input files individually")
	}
	defer filesystem.RemoveDir(scratchDir)

	res, err := merge.Merge(sortedPaths, outDir, outputCount)
	if err != nil {
		return nil, errors.Wrap(err, "merge-sorting input files")
	}
	return res.Outputs, nil
}

// Load reads the .index and .storage sidecars from the resource
// directory and returns an Engine bound to the on-disk batches, without
// reopening or rereading any batch file itself.
func (ix *Indexer) Load() (*Engine, error) {
	d, err := directory.ReadIndex(filesystem.JoinPath(ix.dir, directory.IndexFileName))
	if err != nil {
		return nil, err
	}
	paths, err := directory.ReadStorage(filesystem.JoinPath(ix.dir, directory.StorageFileName))
	if err != nil {
		return nil, err
	}
	return newEngine(d, batch.NewStorage(paths)), nil
}

// BuildForExistingData constructs the index directory from already
// laid-out batch files without rewriting them: it reads the first line
// of each file (rejecting any that are empty) and the last line of the
// final file to populate the separators and last line, then writes fresh
// .index/.storage sidecars. Cross-file monotonicity of batchPaths is
// trusted, not verified.
func (ix *Indexer) BuildForExistingData(batchPaths []string) (*Engine, error) {
	if len(batchPaths) == 0 {
		return nil, ErrEmptyInput
	}

	separators := make([]string, len(batchPaths))
	for i, p := range batchPaths {
		empty, err := filesystem.IsEmpty(p)
		if err != nil {
			return nil, err
		}
		if empty {
			return nil, ErrEmptyInput
		}
		first, err := filesystem.ReadFirstLine(p)
		if err != nil {
			return nil, err
		}
		separators[i] = first
	}

	lastLine, err := filesystem.ReadLastLine(batchPaths[len(batchPaths)-1])
	if err != nil {
		return nil, err
	}

	// Unlike Index, this does not empty the resource directory: the batch
	// files already laid out at batchPaths may live inside it, and they
	// are adopted as-is, never rewritten.
	if err := filesystem.EnsureDir(ix.dir); err != nil {
		return nil, err
	}
	d := directory.New(lastLine, separators)
	if err := directory.WriteIndex(filesystem.JoinPath(ix.dir, directory.IndexFileName), d); err != nil {
		return nil, err
	}
	if err := directory.WriteStorage(filesystem.JoinPath(ix.dir, directory.StorageFileName), batchPaths); err != nil {
		return nil, err
	}

	return newEngine(d, batch.NewStorage(batchPaths)), nil
}

// Delete removes the resource directory and everything in it.
func (ix *Indexer) Delete() error {
	return filesystem.RemoveDir(ix.dir)
}

// chainedLineSource returns a pack.LineSource that streams every line of
// every file in paths, in order, closing each file as it is exhausted.
func chainedLineSource(paths []string) pack.LineSource {
	idx := 0
	var reader *filesystem.LineReader

	return func() (string, error) {
		for {
			if reader == nil {
				if idx >= len(paths) {
					return "", io.EOF
				}
				r, err := filesystem.OpenLineReader(paths[idx])
				if err != nil {
					return "", err
				}
				reader = r
				idx++
			}

			line, err := reader.ReadLine()
			if line != "" {
				if err == io.EOF {
					reader.Close()
					reader = nil
				}
				return line, nil
			}
			reader.Close()
			reader = nil
			if err != nil && err != io.EOF {
				return "", err
			}
		}
	}
}

// SortLines sorts lines ascending in place, using a parallel sort for
// large slices. Callers that cannot otherwise guarantee order should
// call SortLines before IndexLines.
func SortLines(lines []string) {
	sortutil.Strings(lines)
}
