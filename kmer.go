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

// MinK and MaxK bound the k-mer size this package supports. The table
// backing CanonicalIndex has 4^k entries, so k is capped well below the
// 32-base width a uint64 code can hold.
const (
	MinK = 1
	MaxK = 15
)

// base2code maps an ACGT byte (case-insensitive) to its 2-bit code using
// (base >> 1) & 3, which yields A=0, C=1, T=2, G=3.
func base2code(b byte) (uint64, bool) {
	switch b {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'T', 't':
		return 2, true
	case 'G', 'g':
		return 3, true
	}
	return 0, false
}

// Encode packs a raw ACGT byte slice into its 2k-bit code, most
// significant base first. It returns false if kmer contains any
// character outside A/C/G/T (case-insensitive) or has the wrong length.
func Encode(kmer []byte, k int) (uint64, bool) {
	if len(kmer) != k {
		return 0, false
	}
	var code uint64
	for _, b := range kmer {
		c, ok := base2code(b)
		if !ok {
			return 0, false
		}
		code = (code << 2) | c
	}
	return code, true
}

// bit2base is the inverse of base2code.
var bit2base = [4]byte{'A', 'C', 'T', 'G'}

// Decode renders a 2k-bit code back to its upper-case base string.
func Decode(code uint64, k int) []byte {
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = bit2base[code&3]
		code >>= 2
	}
	return out
}

// RevComp computes the reverse complement of a 2k-bit k-mer code via the
// bit-parallel nibble/byte swap trick: successive swaps at widths 2, 4,
// 8, 16 and 32 reverse base order across the 64-bit word, XOR with
// 0xAAAA...AAAA complements each 2-bit base, and the final right-shift
// by 2*(32-k) brings the reversed/complemented k bases down to the low
// bits.
//
// Grounded directly on original_source/include/kmer.h's rev_comp.
func RevComp(code uint64, k int) uint64 {
	res := code
	res = (res>>2)&0x3333333333333333 | (res&0x3333333333333333)<<2
	res = (res>>4)&0x0F0F0F0F0F0F0F0F | (res&0x0F0F0F0F0F0F0F0F)<<4
	res = (res>>8)&0x00FF00FF00FF00FF | (res&0x00FF00FF00FF00FF)<<8
	res = (res>>16)&0x0000FFFF0000FFFF | (res&0x0000FFFF0000FFFF)<<16
	res = (res>>32)&0x00000000FFFFFFFF | (res&0x00000000FFFFFFFF)<<32
	res ^= 0xAAAAAAAAAAAAAAAA
	return res >> uint(2*(32-k))
}

// CanonicalIndex is an immutable, precomputed mapping from every raw
// k-mer code in [0, 4^k) to a canonical feature slot in
// [0, FeatureCount), shared by a k-mer and its reverse complement.
type CanonicalIndex struct {
	k            int
	featureCount int
	slot         []int32
}

// K returns the k-mer size this index was built for.
func (ci *CanonicalIndex) K() int { return ci.k }

// FeatureCount returns the number of distinct canonical k-mers for K().
func (ci *CanonicalIndex) FeatureCount() int { return ci.featureCount }

// Slot returns the canonical feature slot for the raw code c, which must
// be in [0, 4^K()).
func (ci *CanonicalIndex) Slot(c uint64) int { return int(ci.slot[c]) }

// BuildCanonicalIndex enumerates raw codes 0..4^k-1 in ascending order,
// assigning the next free slot the first time each canonical pair
// (code, revcomp(code)) is seen. A k-mer and its reverse complement
// always share a slot; palindromes get their own.
func BuildCanonicalIndex(k int) (*CanonicalIndex, error) {
	if k < MinK || k > MaxK {
		return nil, NewConfigError("k must be in [%d,%d], got %d", MinK, MaxK, k)
	}

	nRaw := uint64(1) << uint(2*k)
	slot := make([]int32, nRaw)
	seen := make(map[uint64]int32, nRaw/2+1)

	var next int32
	for c := uint64(0); c < nRaw; c++ {
		r := RevComp(c, k)
		if s, ok := seen[r]; ok {
			slot[c] = s
			continue
		}
		seen[c] = next
		slot[c] = next
		next++
	}

	return &CanonicalIndex{k: k, featureCount: int(next), slot: slot}, nil
}
