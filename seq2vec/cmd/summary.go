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
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/stable"
)

// runSummary is the --verbose end-of-run report: the reborn,
// structured-log form of a progress display's final line.
type runSummary struct {
	file         string
	output       string
	k            int
	featureCount int
	records      int64
	elapsed      time.Duration
}

var summaryStyle = &stable.TableStyle{
	Name: "plain",

	HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
	DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
	Padding:   "",
}

func printSummary(s runSummary) {
	columns := []stable.Column{
		{Header: "file"},
		{Header: "output"},
		{Header: "k", Align: stable.AlignRight},
		{Header: "features", Align: stable.AlignRight},
		{Header: "records", Align: stable.AlignRight},
		{Header: "elapsed", Align: stable.AlignRight},
		{Header: "records/sec", Align: stable.AlignRight},
	}

	tbl := stable.New()
	tbl.HeaderWithFormat(columns)

	var perSec string
	if secs := s.elapsed.Seconds(); secs > 0 {
		perSec = humanize.Comma(int64(float64(s.records) / secs))
	} else {
		perSec = "-"
	}

	tbl.AddRow([]interface{}{
		s.file,
		s.output,
		s.k,
		s.featureCount,
		humanize.Comma(s.records),
		s.elapsed.Round(time.Millisecond).String(),
		perSec,
	})

	os.Stderr.Write(tbl.Render(summaryStyle))
}

func outputSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
