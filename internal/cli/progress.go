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

package cli

import (
	"os"

	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

// barSink adapts an mpb progress bar to lineidx.ProgressSink.
type barSink struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// newBarSink creates a progress sink that renders a single 0..100 bar
// titled label to stderr.
func newBarSink(label string) *barSink {
	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := p.AddBar(100,
		mpb.BarStyle("[=>-]<+"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DidentRight}),
		),
		mpb.AppendDecorators(decor.Percentage(decor.WC{W: 5})),
	)
	return &barSink{progress: p, bar: bar}
}

func (s *barSink) Start() {}

func (s *barSink) Report(percent int) {
	s.bar.SetCurrent(int64(percent))
}

func (s *barSink) Done() {
	s.bar.SetCurrent(100)
	s.progress.Wait()
}
