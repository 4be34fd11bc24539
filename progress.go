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

// ProgressSink receives build progress as monotonically non-decreasing
// integer percentages. Start is called once before the first batch is
// closed, Report once per percentage value that actually changes, and
// Done once after the last batch and both sidecars are written.
type ProgressSink interface {
	Start()
	Report(percent int)
	Done()
}

// noopProgress discards all progress events; it is used whenever a
// caller passes a nil ProgressSink.
type noopProgress struct{}

func (noopProgress) Start()     {}
func (noopProgress) Report(int) {}
func (noopProgress) Done()      {}

// progressReporter wraps a ProgressSink with the batch-count arithmetic
// and report-only-on-change behavior the Indexer needs.
type progressReporter struct {
	sink    ProgressSink
	total   int
	lastPct int
}

func newProgressReporter(sink ProgressSink, total int) *progressReporter {
	if sink == nil {
		sink = noopProgress{}
	}
	return &progressReporter{sink: sink, total: total, lastPct: -1}
}

func (p *progressReporter) start() {
	p.sink.Start()
	p.report(0)
}

func (p *progressReporter) closed(batchIndex int) {
	if p.total <= 0 {
		return
	}
	p.report(100 * (batchIndex + 1) / p.total)
}

func (p *progressReporter) report(pct int) {
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct
	p.sink.Report(pct)
}

func (p *progressReporter) done() {
	p.report(100)
	p.sink.Done()
}
