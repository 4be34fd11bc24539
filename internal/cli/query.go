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

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "test membership of one or more lines",
	Long: `test membership of one or more lines

Prints "true" or "false" per line, in the same order queried. Lines come
from one or more -q/--line flags, or from stdin if none are given.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if opt.Dir == "" {
			checkError(fmt.Errorf("flag -d/--dir is required"))
		}

		ix, err := lineidx.New(opt.Dir, lineidx.DefaultIndexerOptions())
		checkError(err)
		engine, err := ix.Load()
		checkError(err)

		queries, err := cmd.Flags().GetStringArray("line")
		checkError(err)

		if len(queries) == 0 {
			lines, err := readLines("-")
			checkError(err)
			queries = lines
		}

		for _, q := range queries {
			ok, err := engine.Has(q)
			checkError(err)
			fmt.Println(ok)
		}
	},
}

func init() {
	RootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringArrayP("line", "q", nil, "line to query (repeatable); reads stdin if omitted")
}
