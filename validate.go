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
	"fmt"
	"strings"
)

// ValidateLines checks that every line in lines is either empty of
// newlines or terminates in exactly one, trailing '\n'. It returns
// ErrInvalidLine, wrapped with the offending line's index, on the first
// line holding an embedded '\n' before its final byte. Index and
// IndexLines do not call this themselves; callers that want the check
// should run it before building.
func ValidateLines(lines []string) error {
	for i, l := range lines {
		body := l
		if strings.HasSuffix(body, "\n") {
			body = body[:len(body)-1]
		}
		if strings.IndexByte(body, '\n') >= 0 {
			return errorAtLine(i, ErrInvalidLine)
		}
	}
	return nil
}

// StripNewlines returns a copy of lines with any trailing '\n' removed,
// for callers that want to normalize input before indexing or comparing
// against Engine.Has results.
func StripNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSuffix(l, "\n")
	}
	return out
}

type lineError struct {
	index int
	err   error
}

func errorAtLine(i int, err error) error {
	return &lineError{index: i, err: err}
}

func (e *lineError) Error() string {
	return fmt.Sprintf("%s: line %d", e.err.Error(), e.index)
}

func (e *lineError) Unwrap() error { return e.err }

// Index returns the zero-based position of the invalid line, valid only
// when the error is (or wraps) ErrInvalidLine.
func (e *lineError) Index() int { return e.index }
