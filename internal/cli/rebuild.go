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

	"github.com/shenwei356/lineidx"
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "rebuild sidecars from already laid-out batch files",
	Long: `rebuild sidecars from already laid-out batch files

Reads the first line of each given batch file (in the order given) and
the last line of the final one to reconstruct the separators and the
last line, then writes fresh .index/.storage sidecars. Cross-file
monotonicity of the given files is trusted, not verified.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if opt.Dir == "" {
			checkError(fmt.Errorf("flag -d/--dir is required"))
		}

		files := resolveFiles(cmd, args)
		if len(files) == 0 || isStdin(files[0]) {
			checkError(fmt.Errorf("rebuild requires explicit batch file paths"))
		}

		ix, err := lineidx.New(opt.Dir, lineidx.DefaultIndexerOptions())
		checkError(err)

		_, err = ix.BuildForExistingData(files)
		checkError(err)

		if opt.Verbose {
			log.Infof("rebuilt sidecars from %d batch file(s)", len(files))
		}
	},
}

func init() {
	RootCmd.AddCommand(rebuildCmd)
}
