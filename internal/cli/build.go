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
	"fmt"
	"runtime"

	"github.com/shenwei356/lineidx"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build the index from sorted, cross-file-ordered input files",
	Long: `build the index from sorted, cross-file-ordered input files

Input files must already be sorted ascending, and ordered relative to
each other (the last line of file k must be no greater than the first
line of file k+1). Files that are individually sorted but not
cross-file ordered should be passed through "lineidx sort" first.

Reads from stdin if no files are given.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if opt.Dir == "" {
			checkError(fmt.Errorf("flag -d/--dir is required"))
		}

		existed, err := pathutil.DirExists(opt.Dir)
		checkError(err)
		if existed {
			empty, err := pathutil.IsEmpty(opt.Dir)
			checkError(err)
			if !empty && !getFlagBool(cmd, "force") {
				checkError(fmt.Errorf("directory not empty: %s, use -f (--force) to overwrite", opt.Dir))
			}
		}

		minCount := getFlagPositiveInt(cmd, "min-files")
		maxCount := getFlagPositiveInt(cmd, "max-files")
		wantedCount := getFlagInt(cmd, "file-count")

		options := lineidx.IndexerOptions{
			MinFileCount:    minCount,
			MaxFileCount:    maxCount,
			WantedFileCount: wantedCount,
		}
		ix, err := lineidx.New(opt.Dir, options)
		checkError(err)

		if opt.Verbose {
			ix.WithProgress(newBarSink("building: "))
		}

		files := resolveFiles(cmd, args)
		if len(files) == 1 && isStdin(files[0]) {
			lines, err := readLines(files[0])
			checkError(err)
			if opt.Verbose {
				log.Infof("%d lines read from stdin", len(lines))
			}
			checkError(ix.IndexLines(lines))
			return
		}

		if opt.Verbose {
			log.Infof("%d input file(s) given", len(files))
		}
		checkError(ix.Index(files))

		if opt.Verbose {
			log.Info("build complete")
		}
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntP("min-files", "", 1, "minimum batch count")
	buildCmd.Flags().IntP("max-files", "", 1_000_000_000, "maximum batch count")
	buildCmd.Flags().IntP("file-count", "n", 0, "wanted batch count (0 = use the default)")
	buildCmd.Flags().BoolP("force", "f", false, "overwrite a non-empty resource directory")
}
