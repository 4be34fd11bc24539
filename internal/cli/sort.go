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
	"os"
	"runtime"

	"github.com/shenwei356/lineidx"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "sort and merge input files into cross-file-ordered output",
	Long: `sort and merge input files into cross-file-ordered output

Input files may hold lines in any order; each is sorted independently,
then all are merged. Produces up to -n output files (never more than the
number of distinct lines), globally deduplicated and
equi-line-count rebucketed, suitable as input to "lineidx build".
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		outDir := getFlagString(cmd, "out-dir")
		if outDir == "" {
			checkError(fmt.Errorf("flag -o/--out-dir is required"))
		}
		existed, err := pathutil.DirExists(outDir)
		checkError(err)
		if !existed {
			checkError(os.MkdirAll(outDir, 0777))
		}
		outputCount := getFlagPositiveInt(cmd, "file-count")

		files := resolveFiles(cmd, args)
		if opt.Verbose {
			log.Infof("merge-sorting %d input file(s) into %d output file(s)", len(files), outputCount)
		}

		outputs, err := lineidx.Sort(files, outDir, outputCount)
		checkError(err)

		for _, p := range outputs {
			fmt.Println(p)
		}
	},
}

func init() {
	RootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringP("out-dir", "o", "", "directory to write sorted output files into")
	sortCmd.Flags().IntP("file-count", "n", 1, "number of output files")
}
