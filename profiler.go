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

// KmerProfiler turns a base string into a normalized canonical k-mer
// frequency vector. It is stateless given a CanonicalIndex and safe for
// concurrent use by many goroutines.
type KmerProfiler struct {
	index *CanonicalIndex
	mask  uint64
}

// NewKmerProfiler builds a profiler over the given canonical index.
func NewKmerProfiler(index *CanonicalIndex) *KmerProfiler {
	return &KmerProfiler{
		index: index,
		mask:  (uint64(1) << uint(2*index.K())) - 1,
	}
}

// Index returns the CanonicalIndex backing this profiler.
func (p *KmerProfiler) Index() *CanonicalIndex { return p.index }

// Profile scans bases with a rolling 2-bit window and returns the
// normalized canonical k-mer frequency vector, of length
// Index().FeatureCount(). Only the forward orientation is looked up per
// window; canonicalization is already folded into the index's slot
// table. Any byte outside A/C/G/T (case-insensitive) resets the window
// without error. The returned vector is all zero when bases contains
// fewer than k valid contiguous bases.
func (p *KmerProfiler) Profile(bases []byte) []float64 {
	k := p.index.K()
	profile := make([]float64, p.index.FeatureCount())

	var val uint64
	var length int
	var total float64

	for _, b := range bases {
		c, ok := base2code(upper(b))
		if !ok {
			val = 0
			length = 0
			continue
		}

		val = ((val << 2) | c) & p.mask
		length++

		if length == k {
			profile[p.index.Slot(val)]++
			total++
			length = k - 1
		}
	}

	denom := total
	if denom < 1 {
		denom = 1
	}
	for i := range profile {
		profile[i] /= denom
	}
	return profile
}

// ProfileString is a convenience wrapper around Profile for string
// input.
func (p *KmerProfiler) ProfileString(bases string) []float64 {
	return p.Profile([]byte(bases))
}

// upper ASCII-uppercases a single byte; non-letters pass through
// unchanged (they are rejected by base2code regardless).
func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
