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

package seq2vec

import "strconv"

// valueWidth is the fixed byte width of one formatted value: "0.123456"
// or "1.000000", always 8 bytes (a leading digit, '.', 6 decimals).
const valueWidth = 8

// Formatter serializes a profile vector into a fixed-width text line.
// The byte length of every line it produces for a given feature count is
// constant, which random-access OutputSink writing depends on.
type Formatter struct {
	sep          byte
	featureCount int
	recordWidth  int
}

// NewFormatter builds a Formatter for profiles of the given feature
// count, using sep ('\t' or ',') between values.
func NewFormatter(featureCount int, sep byte) *Formatter {
	return &Formatter{
		sep:          sep,
		featureCount: featureCount,
		recordWidth:  featureCount * (valueWidth + 1),
	}
}

// RecordWidth returns the exact byte length of every line this
// formatter produces: featureCount * (8 + 1).
func (f *Formatter) RecordWidth() int { return f.recordWidth }

// AppendTo appends the formatted line for profile (including the
// trailing newline) to dst and returns the extended slice. len(profile)
// must equal the featureCount the Formatter was built with.
func (f *Formatter) AppendTo(dst []byte, profile []float64) []byte {
	for i, v := range profile {
		if i > 0 {
			dst = append(dst, f.sep)
		}
		dst = appendFixed6(dst, v)
	}
	dst = append(dst, '\n')
	return dst
}

// Format returns the formatted line for profile as a freshly allocated
// byte slice, exactly RecordWidth() bytes long.
func (f *Formatter) Format(profile []float64) []byte {
	buf := make([]byte, 0, f.recordWidth)
	return f.AppendTo(buf, profile)
}

// appendFixed6 appends v (always in [0,1]) in fixed-point notation with
// exactly 6 digits after the decimal point and no leading/trailing
// padding: "0.123456" or "1.000000", always 8 bytes.
func appendFixed6(dst []byte, v float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', 6, 64)
	// v is always in [0,1], so strconv always emits exactly 8 bytes
	// ("0.xxxxxx" or "1.000000"); this guards the random-access sink's
	// fixed-width assumption against float drift at the boundary.
	for len(dst)-start < valueWidth {
		dst = append(dst, '0')
	}
	return dst
}
