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

package lineidx

import (
	"path/filepath"
	"testing"

	"github.com/shenwei356/lineidx/internal/filesystem"
)

func mustHas(t *testing.T, e *Engine, line string, want bool) {
	t.Helper()
	got, err := e.Has(line)
	if err != nil {
		t.Fatalf("Has(%q): %v", line, err)
	}
	if got != want {
		t.Errorf("Has(%q) = %v, want %v", line, got, want)
	}
}

func TestIndexLinesSmall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix.IndexLines([]string{"1", "2", "3", "4", "5"}); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}

	indexContent, err := filesystem.ReadAllLines(filepath.Join(dir, ".index"))
	if err != nil {
		t.Fatalf("reading .index: %v", err)
	}
	want := []string{"5\n", "3\n", "1\n", "2\n", "4\n"}
	if len(indexContent) != len(want) {
		t.Fatalf(".index lines = %v, want %v", indexContent, want)
	}
	for i := range want {
		if indexContent[i] != want[i] {
			t.Errorf(".index line %d = %q, want %q", i, indexContent[i], want[i])
		}
	}

	e, err := ix.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mustHas(t, e, "5", true)
	mustHas(t, e, "6", false)
	mustHas(t, e, "", false)
}

func TestSortThenIndexUnorderedFiles(t *testing.T) {
	srcDir := t.TempDir()
	sortedDir := t.TempDir()

	f1 := filepath.Join(srcDir, "a.dat")
	f2 := filepath.Join(srcDir, "b.dat")
	f3 := filepath.Join(srcDir, "c.dat")
	if err := filesystem.WriteLines(f1, []string{"2\n", "2\n"}); err != nil {
		t.Fatal(err)
	}
	if err := filesystem.WriteLines(f2, []string{"4\n"}); err != nil {
		t.Fatal(err)
	}
	if err := filesystem.WriteLines(f3, []string{"1\n", "3\n", "4\n", "5\n"}); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	outputs, err := Sort([]string{f1, f2, f3}, sortedDir, 3)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	if err := ix.Index(outputs); err != nil {
		t.Fatalf("Index: %v", err)
	}

	e, err := ix.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, l := range []string{"1", "2", "3", "4", "5"} {
		mustHas(t, e, l, true)
	}
	mustHas(t, e, "6", false)
}

func TestBuildForExistingData(t *testing.T) {
	batchDir := t.TempDir()
	p0 := filepath.Join(batchDir, "0.dat")
	p1 := filepath.Join(batchDir, "1.dat")
	p2 := filepath.Join(batchDir, "2.dat")
	if err := filesystem.WriteLines(p0, []string{"1\n"}); err != nil {
		t.Fatal(err)
	}
	if err := filesystem.WriteLines(p1, []string{"200\n", "3\n"}); err != nil {
		t.Fatal(err)
	}
	if err := filesystem.WriteLines(p2, []string{"4\n", "5\n"}); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, DefaultIndexerOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e, err := ix.BuildForExistingData([]string{p0, p1, p2})
	if err != nil {
		t.Fatalf("BuildForExistingData: %v", err)
	}
	mustHas(t, e, "200", true)
	mustHas(t, e, "0", false)
	mustHas(t, e, "8", false)
}

func TestNewlineHandling(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix.IndexLines([]string{"abc", "xyz"}); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}
	e, err := ix.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	withNL, err := e.Has("abc\n")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	withoutNL, err := e.Has("abc")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if withNL != withoutNL {
		t.Errorf("Has(abc\\n)=%v, Has(abc)=%v, want equal", withNL, withoutNL)
	}
	mustHas(t, e, "ab\nc", false)
}

func TestBoundaryLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix.IndexLines([]string{"a", "z"}); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}
	e, err := ix.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mustHas(t, e, "a", true)
	mustHas(t, e, "z", true)
	mustHas(t, e, "m", false)
}

func TestDirectoryReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	lines := []string{"apple", "banana", "cherry", "date", "fig", "grape"}

	ix1, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix1.IndexLines(lines); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}
	e1, err := ix1.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ix2, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 3})
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	e2, err := ix2.Load()
	if err != nil {
		t.Fatalf("Load (reload): %v", err)
	}

	probes := append(append([]string{}, lines...), "missing", "")
	for _, l := range probes {
		got1, err := e1.Has(l)
		if err != nil {
			t.Fatalf("e1.Has(%q): %v", l, err)
		}
		got2, err := e2.Has(l)
		if err != nil {
			t.Fatalf("e2.Has(%q): %v", l, err)
		}
		if got1 != got2 {
			t.Errorf("Has(%q) diverged across reload: %v vs %v", l, got1, got2)
		}
	}
}

func TestIndexEmptyInputRejected(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, DefaultIndexerOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix.IndexLines(nil); err != ErrEmptyInput {
		t.Fatalf("IndexLines(nil) error = %v, want ErrEmptyInput", err)
	}
	if err := ix.Index(nil); err != ErrEmptyInput {
		t.Fatalf("Index(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := ix.BuildForExistingData(nil); err != ErrEmptyInput {
		t.Fatalf("BuildForExistingData(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestIndexerOptionsValidation(t *testing.T) {
	cases := []struct {
		name string
		opts IndexerOptions
		ok   bool
	}{
		{"zero min", IndexerOptions{MinFileCount: 0, MaxFileCount: 10}, false},
		{"min over max", IndexerOptions{MinFileCount: 10, MaxFileCount: 5}, false},
		{"wanted below min", IndexerOptions{MinFileCount: 5, MaxFileCount: 10, WantedFileCount: 2}, false},
		{"wanted above max", IndexerOptions{MinFileCount: 1, MaxFileCount: 10, WantedFileCount: 20}, false},
		{"valid", IndexerOptions{MinFileCount: 1, MaxFileCount: 10, WantedFileCount: 5}, true},
	}
	for _, c := range cases {
		err := c.opts.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", c.name, err)
		}
		if !c.ok && err != ErrConfigInvalid {
			t.Errorf("%s: Validate() = %v, want ErrConfigInvalid", c.name, err)
		}
	}
}

type recordingSink struct {
	pcts    []int
	started bool
	done    bool
}

func (s *recordingSink) Start()       { s.started = true }
func (s *recordingSink) Report(p int) { s.pcts = append(s.pcts, p) }
func (s *recordingSink) Done()        { s.done = true }

func TestProgressReporting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	sink := &recordingSink{}
	ix, err := New(dir, IndexerOptions{MinFileCount: 1, MaxFileCount: 1000, WantedFileCount: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ix.WithProgress(sink)

	if err := ix.IndexLines([]string{"a", "b", "c", "d", "e", "f", "g", "h"}); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}

	if !sink.started || !sink.done {
		t.Fatalf("sink started=%v done=%v, want both true", sink.started, sink.done)
	}
	if len(sink.pcts) == 0 || sink.pcts[0] != 0 {
		t.Fatalf("pcts = %v, want to start at 0", sink.pcts)
	}
	if sink.pcts[len(sink.pcts)-1] != 100 {
		t.Fatalf("pcts = %v, want to end at 100", sink.pcts)
	}
	for i := 1; i < len(sink.pcts); i++ {
		if sink.pcts[i] < sink.pcts[i-1] {
			t.Fatalf("pcts = %v, not monotonically non-decreasing", sink.pcts)
		}
	}
}

func TestDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	ix, err := New(dir, DefaultIndexerOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ix.IndexLines([]string{"a", "b"}); err != nil {
		t.Fatalf("IndexLines: %v", err)
	}
	if err := ix.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ix.Load(); err == nil {
		t.Fatalf("Load after Delete: expected error")
	}
}
