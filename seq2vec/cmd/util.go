// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
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

package cmd

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"

	"github.com/anuradhawick/seq2vec"
)

var log = logging.MustGetLogger("seq2vec")

// checkError logs err (if any) and exits with the exit code matching
// its error kind: 1 for a ConfigError (usage), 2 for everything else
// (runtime failure), per spec.md §6/§7.
func checkError(err error) {
	if err == nil {
		return
	}
	log.Error(err.Error())

	var cfgErr *seq2vec.ConfigError
	if errors.As(err, &cfgErr) {
		os.Exit(1)
	}
	os.Exit(2)
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(errors.Wrap(err, flag))
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(errors.Wrap(err, flag))
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(errors.Wrap(err, flag))
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value <= 0 {
		checkError(seq2vec.NewConfigError("value of flag --%s should be a positive integer", flag))
	}
	return value
}

// expandPath expands a leading "~" the way every interactive CLI in
// this space does. It does not check that the path exists; see
// checkFileExists.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	checkError(errors.Wrap(err, path))
	return expanded
}

func checkFileExists(path string) {
	ok, err := pathutil.Exists(path)
	checkError(errors.Wrap(err, path))
	if !ok {
		checkError(seq2vec.NewConfigError("input file does not exist: %s", path))
	}
}
