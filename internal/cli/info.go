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

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/lineidx/internal/directory"
	"github.com/shenwei356/lineidx/internal/filesystem"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

// dirStats is the machine-readable shape printed by --format yaml.
type dirStats struct {
	Dir        string `yaml:"dir"`
	BatchCount int    `yaml:"batch_count"`
	LastLine   string `yaml:"last_line"`
	TotalBytes int64  `yaml:"total_bytes"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print resource directory statistics",
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if opt.Dir == "" {
			checkError(fmt.Errorf("flag -d/--dir is required"))
		}

		stats := collectStats(opt.Dir)

		format := getFlagString(cmd, "format")
		if format == "yaml" {
			out, err := yaml.Marshal(stats)
			checkError(err)
			fmt.Print(string(out))
			return
		}

		style := &stable.TableStyle{
			Name: "plain",

			HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			Padding:   "",
		}

		columns := []stable.Column{
			{Header: "directory"},
			{Header: "batch count", Align: stable.AlignRight},
			{Header: "last line"},
			{Header: "total size", Align: stable.AlignRight},
		}
		tbl := stable.New()
		tbl.HeaderWithFormat(columns)

		row := make([]interface{}, 0, len(columns))
		row = append(row, stats.Dir)
		row = append(row, stats.BatchCount)
		row = append(row, fmt.Sprintf("%q", stats.LastLine))
		row = append(row, humanize.Bytes(uint64(stats.TotalBytes)))
		tbl.AddRow(row)

		os.Stdout.Write(tbl.Render(style))
	},
}

func collectStats(dir string) dirStats {
	d, err := directory.ReadIndex(filesystem.JoinPath(dir, directory.IndexFileName))
	checkError(err)
	paths, err := directory.ReadStorage(filesystem.JoinPath(dir, directory.StorageFileName))
	checkError(err)

	var total int64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err == nil {
			total += fi.Size()
		}
	}

	return dirStats{
		Dir:        dir,
		BatchCount: len(d.Separators),
		LastLine:   d.LastLine,
		TotalBytes: total,
	}
}

func init() {
	RootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringP("format", "f", "text", `output format: "text" or "yaml"`)
}
