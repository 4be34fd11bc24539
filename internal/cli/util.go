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
	"bufio"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("lineidx")

// Options contains the global flags shared by every subcommand.
type Options struct {
	NumCPUs int
	Verbose bool
	Dir     string
}

func getOptions(cmd *cobra.Command) *Options {
	dir, err := homedir.Expand(getFlagString(cmd, "dir"))
	checkError(err)
	return &Options{
		NumCPUs: getFlagPositiveInt(cmd, "threads"),
		Verbose: getFlagBool(cmd, "verbose"),
		Dir:     dir,
	}
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "[ERRO]", err)
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be positive: %d", flag, value))
	}
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

// isStdin reports whether file names stdin by convention ("-").
func isStdin(file string) bool {
	return file == "-"
}

// getFileList returns args verbatim, or ["-"] (stdin) if args is empty.
func getFileList(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// getListFromFile reads one file path per line from path, mirroring the
// --infile-list flag's behavior.
func getListFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, scanner.Err()
}

// resolveFiles applies the --infile-list override, falling back to args
// (or stdin) otherwise.
func resolveFiles(cmd *cobra.Command, args []string) []string {
	infileList := getFlagString(cmd, "infile-list")
	if infileList != "" {
		files, err := getListFromFile(infileList)
		checkError(err)
		return files
	}
	return getFileList(args)
}

// readLines opens and reads every line of the file at path (or stdin when
// path is "-"), each stripped of its trailing newline.
func readLines(path string) ([]string, error) {
	var f *os.File
	if isStdin(path) {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
