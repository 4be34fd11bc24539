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

// Package filesystem provides the byte-safe, streaming line I/O and
// directory lifecycle primitives the indexing pipeline is built on. It
// knows nothing about batches, separators, or search; it only knows how
// to read and write lines and manage the resource directory as a whole.
package filesystem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// RecommendedFileLimit is the conservative upper bound on the number of
// files a single resource directory is expected to hold. BatchFileName
// takes its width ceiling as an argument and does not read this constant.
const RecommendedFileLimit = 1_000_000_000

// Size is a byte count, with constructors mirroring common units.
type Size int64

// KB, MB and GB build a Size from kilobytes, megabytes and gigabytes.
func KB(n int64) Size { return Size(n << 10) }
func MB(n int64) Size { return Size(n << 20) }
func GB(n int64) Size { return Size(n << 30) }

// Bytes returns the size as a plain byte count.
func (s Size) Bytes() int64 { return int64(s) }

// LineWriter appends whole lines (including their trailing '\n') to a
// file, opened lazily on the first Write call so that an all-empty
// stream never creates an output file.
type LineWriter struct {
	path string
	f    *os.File
	w    *bufio.Writer
	n    int64
	size int64
}

// NewLineWriter returns a writer targeting path. The file is created
// (truncating any existing content) on the first call to Write.
func NewLineWriter(path string) *LineWriter {
	return &LineWriter{path: path}
}

// Write appends one line, which must already include its trailing '\n'.
func (lw *LineWriter) Write(line string) error {
	if lw.f == nil {
		f, err := os.Create(lw.path)
		if err != nil {
			return errors.Wrapf(err, "creating batch file %s", lw.path)
		}
		lw.f = f
		lw.w = bufio.NewWriterSize(f, os.Getpagesize())
	}
	n, err := lw.w.WriteString(line)
	if err != nil {
		return errors.Wrapf(err, "writing to %s", lw.path)
	}
	lw.n++
	lw.size += int64(n)
	return nil
}

// Lines returns the number of lines written so far.
func (lw *LineWriter) Lines() int64 { return lw.n }

// Bytes returns the number of bytes written so far.
func (lw *LineWriter) Bytes() int64 { return lw.size }

// Close flushes and closes the underlying file, if one was opened.
func (lw *LineWriter) Close() error {
	if lw.f == nil {
		return nil
	}
	if err := lw.w.Flush(); err != nil {
		lw.f.Close()
		return errors.Wrapf(err, "flushing %s", lw.path)
	}
	return lw.f.Close()
}

// LineReader pulls one line at a time (including the trailing '\n') from
// a file, transparently gzip-decompressing it if the file starts with a
// gzip magic header.
type LineReader struct {
	path string
	f    *os.File
	gr   io.ReadCloser
	r    *bufio.Reader
}

// OpenLineReader opens path for line-at-a-time reading.
func OpenLineReader(path string) (*LineReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	br := bufio.NewReaderSize(f, os.Getpagesize())

	gzipped, err := isGzip(br)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "checking %s for gzip header", path)
	}

	lr := &LineReader{path: path, f: f}
	if gzipped {
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "creating gzip reader for %s", path)
		}
		lr.gr = gr
		lr.r = bufio.NewReaderSize(gr, os.Getpagesize())
	} else {
		lr.r = br
	}
	return lr, nil
}

// IsGzipFile reports whether path begins with a gzip magic header,
// examining only the first two bytes.
func IsGzipFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	gzipped, err := isGzip(bufio.NewReaderSize(f, 2))
	if err != nil {
		return false, errors.Wrapf(err, "checking %s for gzip header", path)
	}
	return gzipped, nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	magic, err := b.Peek(2)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return magic[0] == 0x1f && magic[1] == 0x8b, nil
}

// ReadLine reads the next line, including its trailing '\n'. It returns
// io.EOF (with an empty string) once the stream is exhausted; a final
// unterminated line is returned as-is, without a synthesized '\n'.
func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if line == "" && err != nil {
		return "", err
	}
	if err != nil && err != io.EOF {
		return "", errors.Wrapf(err, "reading %s", lr.path)
	}
	return line, nil
}

// Close releases the underlying file handles.
func (lr *LineReader) Close() error {
	var err error
	if lr.gr != nil {
		err = lr.gr.Close()
	}
	if cerr := lr.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFirstLine returns the first line of path (with trailing '\n'), or
// ("", io.EOF) if the file is empty.
func ReadFirstLine(path string) (string, error) {
	r, err := OpenLineReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.ReadLine()
}

// ReadLastLine scans the whole file and returns its final line.
func ReadLastLine(path string) (string, error) {
	r, err := OpenLineReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	var last string
	for {
		line, err := r.ReadLine()
		if line != "" {
			last = line
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	if last == "" {
		return "", io.EOF
	}
	return last, nil
}

// CountBytesAndLines performs a single streaming pass over path, reporting
// its total byte size and line count.
func CountBytesAndLines(path string) (bytes int64, lines int64, err error) {
	r, err := OpenLineReader(path)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()
	for {
		line, rerr := r.ReadLine()
		if line != "" {
			bytes += int64(len(line))
			lines++
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, 0, rerr
		}
	}
	return bytes, lines, nil
}

// IsEmpty reports whether path names a zero-byte file.
func IsEmpty(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "statting %s", path)
	}
	return fi.Size() == 0, nil
}

// MakeEmptyDir ensures dir exists and is empty, removing any pre-existing
// contents. It is the one mutating filesystem call the Indexer makes
// before a build.
func MakeEmptyDir(dir string) error {
	if err := RemoveDir(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}
	return nil
}

// EnsureDir creates dir if it does not already exist, leaving any existing
// contents untouched. Unlike MakeEmptyDir it never deletes anything; it is
// what BuildForExistingData uses, since its batch files may already live
// inside dir.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}
	return nil
}

// RemoveDir removes dir and everything under it, if it exists.
func RemoveDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "removing directory %s", dir)
	}
	return nil
}

// BatchFileName returns the zero-padded uppercase hex file name for batch
// number i, given that at most maxBatches batches will ever be produced.
// Width is ceil(log16(maxBatches)), with a minimum width of 1.
func BatchFileName(i int, maxBatches int) string {
	width := hexWidth(maxBatches)
	return fmt.Sprintf("%0*X.dat", width, i)
}

func hexWidth(maxBatches int) int {
	if maxBatches <= 1 {
		return 1
	}
	n := maxBatches - 1
	width := 0
	for n > 0 {
		width++
		n /= 16
	}
	if width == 0 {
		width = 1
	}
	return width
}

// JoinPath joins a resource directory with a file name.
func JoinPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// WriteLines writes lines verbatim (each already newline-terminated) to
// path, truncating any existing content.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, os.Getpagesize())
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return w.Flush()
}

// ReadAllLines reads every line of path into memory, trailing newlines
// included.
func ReadAllLines(path string) ([]string, error) {
	r, err := OpenLineReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var lines []string
	for {
		line, err := r.ReadLine()
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}
