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

import "errors"

// ErrConfigInvalid means the IndexerOptions file-count limits are out of
// range or inconsistent with each other.
var ErrConfigInvalid = errors.New("lineidx: invalid indexer options")

// ErrEmptyInput means Index, IndexLines or BuildForExistingData was
// called with no input, or a supplied data file had zero lines.
var ErrEmptyInput = errors.New("lineidx: empty input")

// ErrInvalidLine means a line contains an embedded newline not as its
// final byte. Only surfaced when the caller invokes the line validator.
var ErrInvalidLine = errors.New("lineidx: invalid line")

// ErrInternalInvariant guards an unreachable branch after the packer. Its
// appearance indicates a bug in this package, not a caller error.
var ErrInternalInvariant = errors.New("lineidx: internal invariant violated")
