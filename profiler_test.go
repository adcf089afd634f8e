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

import (
	"math"
	"testing"
)

func mustProfiler(t *testing.T, k int) *KmerProfiler {
	t.Helper()
	ci, err := BuildCanonicalIndex(k)
	if err != nil {
		t.Fatalf("BuildCanonicalIndex(%d): %v", k, err)
	}
	return NewKmerProfiler(ci)
}

// TestProfileWorkedExample is spec.md §8 S1: k=2, "ACGT" -> AC, CG, GT,
// each occurring once, canonical slots 1, 6, 1.
func TestProfileWorkedExample(t *testing.T) {
	p := mustProfiler(t, 2)
	profile := p.ProfileString("ACGT")

	sum := 0.0
	for _, v := range profile {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("profile sums to %v, want 1.0", sum)
	}

	want := map[int]float64{1: 2.0 / 3.0, 6: 1.0 / 3.0}
	for slot, v := range want {
		if math.Abs(profile[slot]-v) > 1e-9 {
			t.Errorf("profile[%d] = %v, want %v", slot, profile[slot], v)
		}
	}
}

// TestProfileSumsToOne checks invariant 3 from spec.md §8 across a range
// of sequences that contain at least one valid k-mer.
func TestProfileSumsToOne(t *testing.T) {
	p := mustProfiler(t, 3)
	seqs := []string{"ACGTACGT", "GGGGGGGG", "acgtACGT", "ATATATATCGCG"}
	for _, s := range seqs {
		profile := p.ProfileString(s)
		sum := 0.0
		for _, v := range profile {
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Profile(%q) sums to %v, want 1.0", s, sum)
		}
	}
}

// TestProfileAllZeroOnNoValidKmer checks invariant 4 from spec.md §8: a
// sequence with fewer than k valid contiguous bases (including the empty
// string and all-N) yields an all-zero profile rather than a division
// failure.
func TestProfileAllZeroOnNoValidKmer(t *testing.T) {
	p := mustProfiler(t, 4)
	for _, s := range []string{"", "AC", "NNNNNNNN", "AC-GT"} {
		profile := p.ProfileString(s)
		for i, v := range profile {
			if v != 0 {
				t.Errorf("Profile(%q)[%d] = %v, want 0", s, i, v)
			}
		}
	}
}

// TestProfileRevCompInvariant checks invariant 5 from spec.md §8: a
// sequence and its reverse complement produce identical profiles, since
// every k-mer window in one is the canonical partner of a window in the
// other (in reverse order).
func TestProfileRevCompInvariant(t *testing.T) {
	p := mustProfiler(t, 3)
	seq := "ACGTTGCAACGT"
	rc := reverseComplementString(seq)

	p1 := p.ProfileString(seq)
	p2 := p.ProfileString(rc)
	for i := range p1 {
		if math.Abs(p1[i]-p2[i]) > 1e-9 {
			t.Errorf("Profile(seq)[%d] = %v, Profile(revcomp(seq))[%d] = %v", i, p1[i], i, p2[i])
		}
	}
}

// TestProfileResetsOnInvalidByte checks that a run is broken, not
// skipped, by a non-ACGT byte: "AC-GT" with k=2 must not count "CG" as
// if the '-' were elided.
func TestProfileResetsOnInvalidByte(t *testing.T) {
	p := mustProfiler(t, 2)
	profile := p.ProfileString("AC-GT")

	acCode, _ := Encode([]byte("AC"), 2)
	cgCode, _ := Encode([]byte("CG"), 2)
	acSlot := p.Index().Slot(acCode)
	cgSlot := p.Index().Slot(cgCode)

	if profile[acSlot] != 1.0 {
		t.Errorf("profile[AC]=%v, want 1.0 (AC and GT share this slot and are the only valid k-mers)", profile[acSlot])
	}
	if profile[cgSlot] != 0 {
		t.Errorf("profile[CG]=%v, want 0 (CG spans the break)", profile[cgSlot])
	}
}

func reverseComplementString(s string) string {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[len(s)-1-i] = comp[s[i]]
	}
	return string(out)
}
