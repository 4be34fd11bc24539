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

package pack

import (
	"io"
	"testing"

	"github.com/shenwei356/lineidx/internal/filesystem"
)

func sliceSource(lines []string) LineSource {
	i := 0
	return func() (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		line := lines[i]
		i++
		return line, nil
	}
}

func readBatch(t *testing.T, path string) []string {
	t.Helper()
	lines, err := filesystem.ReadAllLines(path)
	if err != nil {
		t.Fatalf("ReadAllLines(%s): %v", path, err)
	}
	return lines
}

func TestPackFiveLinesIntoThreeBatches(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"1\n", "2\n", "3\n", "4\n", "5\n"}
	var total int64
	for _, l := range lines {
		total += int64(len(l))
	}

	res, err := Pack(sliceSource(lines), total, 3, 3, dir, nil)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.LastLine != "5\n" {
		t.Fatalf("LastLine = %q, want 5\\n", res.LastLine)
	}
	wantSeps := []string{"1\n", "2\n", "4\n"}
	if len(res.Separators) != len(wantSeps) {
		t.Fatalf("Separators = %v, want %v", res.Separators, wantSeps)
	}
	for i, s := range wantSeps {
		if res.Separators[i] != s {
			t.Errorf("Separators[%d] = %q, want %q", i, res.Separators[i], s)
		}
	}
	if len(res.Manifest) != 3 {
		t.Fatalf("Manifest has %d entries, want 3", len(res.Manifest))
	}

	wantBatches := [][]string{
		{"1\n"},
		{"2\n", "3\n"},
		{"4\n", "5\n"},
	}
	for i, want := range wantBatches {
		got := readBatch(t, res.Manifest[i])
		if len(got) != len(want) {
			t.Fatalf("batch %d = %v, want %v", i, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("batch %d line %d = %q, want %q", i, j, got[j], want[j])
			}
		}
	}
}

func TestPackEmptyInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Pack(sliceSource(nil), 0, 3, 3, dir, nil)
	if err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestPackFewerBatchesThanWanted(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"aaaa\n", "bbbb\n"}
	var total int64
	for _, l := range lines {
		total += int64(len(l))
	}
	res, err := Pack(sliceSource(lines), total, 100, 100, dir, nil)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Manifest) >= 100 {
		t.Fatalf("expected fewer than 100 batches, got %d", len(res.Manifest))
	}
	for _, p := range res.Manifest {
		lines := readBatch(t, p)
		if len(lines) == 0 {
			t.Errorf("batch %s is empty", p)
		}
	}
}

// TestPackSkewedLineSizesNeverEmptyBatch guards against a line so much
// wider than its share of the byte budget that the naive cutoff check
// would close a batch before writing anything into it.
func TestPackSkewedLineSizesNeverEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	huge := make([]byte, 1000)
	for i := range huge {
		huge[i] = 'a'
	}
	lines := []string{string(huge) + "\n", "b\n", "c\n", "d\n", "e\n"}
	var total int64
	for _, l := range lines {
		total += int64(len(l))
	}

	res, err := Pack(sliceSource(lines), total, 5, 5, dir, nil)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	for _, p := range res.Manifest {
		got := readBatch(t, p)
		if len(got) == 0 {
			t.Errorf("batch %s is empty, want every batch non-empty", p)
		}
	}
}

func TestPackProgressCallback(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"a\n", "b\n", "c\n", "d\n"}
	var total int64
	for _, l := range lines {
		total += int64(len(l))
	}
	var closedIdx []int
	_, err := Pack(sliceSource(lines), total, 4, 4, dir, func(i int) {
		closedIdx = append(closedIdx, i)
	})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(closedIdx) != 4 {
		t.Fatalf("closed called %d times, want 4", len(closedIdx))
	}
	for i, idx := range closedIdx {
		if idx != i {
			t.Errorf("closed order[%d] = %d", i, idx)
		}
	}
}
