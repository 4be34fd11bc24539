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

// DefaultWantedFileCount is used when IndexerOptions.WantedFileCount is
// left at zero.
const DefaultWantedFileCount = 1000

// fileCountLimit is the ceiling any of the three IndexerOptions counts
// may take.
const fileCountLimit = 1_000_000_000

// IndexerOptions configures the batch count an Indexer targets.
//
// MinFileCount and MaxFileCount bound the batch count N; WantedFileCount,
// if non-zero, is the preferred N before clamping to [MinFileCount,
// min(MaxFileCount, line count)]. Leaving WantedFileCount at zero selects
// DefaultWantedFileCount.
type IndexerOptions struct {
	MinFileCount    int
	MaxFileCount    int
	WantedFileCount int
}

// DefaultIndexerOptions returns the zero-value-safe default configuration:
// MinFileCount 1, MaxFileCount the hard ceiling, WantedFileCount unset
// (so DefaultWantedFileCount applies).
func DefaultIndexerOptions() IndexerOptions {
	return IndexerOptions{
		MinFileCount: 1,
		MaxFileCount: fileCountLimit,
	}
}

// Validate checks the three counts lie in [1, 1e9], MinFileCount does not
// exceed MaxFileCount, and, if set, WantedFileCount falls within
// [MinFileCount, MaxFileCount].
func (o IndexerOptions) Validate() error {
	if o.MinFileCount < 1 || o.MinFileCount > fileCountLimit {
		return ErrConfigInvalid
	}
	if o.MaxFileCount < 1 || o.MaxFileCount > fileCountLimit {
		return ErrConfigInvalid
	}
	if o.MinFileCount > o.MaxFileCount {
		return ErrConfigInvalid
	}
	if o.WantedFileCount != 0 {
		if o.WantedFileCount < o.MinFileCount || o.WantedFileCount > o.MaxFileCount {
			return ErrConfigInvalid
		}
	}
	return nil
}

// batchCount chooses N given the resolved line count lineCount, per the
// clamping rule: start from WantedFileCount (or DefaultWantedFileCount if
// unset), then clamp to [MinFileCount, min(MaxFileCount, lineCount)].
func (o IndexerOptions) batchCount(lineCount int64) int {
	wanted := o.WantedFileCount
	if wanted == 0 {
		wanted = DefaultWantedFileCount
	}

	upper := o.MaxFileCount
	if lineCount < int64(upper) {
		upper = int(lineCount)
	}
	if upper < 1 {
		upper = 1
	}

	n := wanted
	if n < o.MinFileCount {
		n = o.MinFileCount
	}
	if n > upper {
		n = upper
	}
	return n
}
