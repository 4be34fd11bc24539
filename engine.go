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
	"strings"

	"github.com/shenwei356/lineidx/internal/batch"
	"github.com/shenwei356/lineidx/internal/directory"
)

// Engine answers membership queries over a loaded directory and its
// backing batches. It holds no open file handles between calls; each Has
// opens only the one batch file it needs.
type Engine struct {
	dir     *directory.Directory
	storage *batch.Storage
}

func newEngine(dir *directory.Directory, storage *batch.Storage) *Engine {
	return &Engine{dir: dir, storage: storage}
}

// Has reports whether line is present in the index. line may be supplied
// with or without its trailing newline; one is appended if missing. A
// line containing an embedded '\n' before its final byte can never be
// present and returns false without touching disk. The error return
// carries only underlying I/O failures from reading the candidate batch.
func (e *Engine) Has(line string) (bool, error) {
	if idx := strings.IndexByte(line, '\n'); idx >= 0 && idx != len(line)-1 {
		return false, nil
	}
	normalized := normalizeLine(line)

	if len(e.dir.Separators) == 0 {
		return false, nil
	}
	if normalized < e.dir.Separators[0] || normalized > e.dir.LastLine {
		return false, nil
	}

	i, ok := e.dir.BatchFor(normalized)
	if !ok {
		return false, nil
	}

	return e.storage.Get(i).Contains(normalized)
}

func normalizeLine(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}
