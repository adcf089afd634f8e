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
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func writeTempGzip(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", p, err)
	}
	gw := gzip.NewWriter(f)
	if _, err := gw.Write([]byte(content)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	f.Close()
	return p
}

func drainSource(t *testing.T, src SequenceSource) []Record {
	t.Helper()
	defer src.Close()
	var recs []Record
	for {
		rec, ok, err := src.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		if !ok {
			break
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestStreamSourceFastaMultiline(t *testing.T) {
	p := writeTemp(t, "in.fa", ">seq1 desc\nACGT\nACGT\n>seq2\nGGGG\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	recs := drainSource(t, src)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Header != "seq1 desc" || string(recs[0].Bases) != "ACGTACGT" {
		t.Errorf("recs[0] = %+v", recs[0])
	}
	if recs[1].SeqID != 1 || string(recs[1].Bases) != "GGGG" {
		t.Errorf("recs[1] = %+v", recs[1])
	}
}

// TestStreamSourceFastaBlankBody is spec.md §8 S3: a header followed by a
// blank line then EOF is a valid, empty-bases record, not an error.
func TestStreamSourceFastaBlankBody(t *testing.T) {
	p := writeTemp(t, "in.fa", ">a\n\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	recs := drainSource(t, src)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if len(recs[0].Bases) != 0 {
		t.Errorf("Bases = %q, want empty", recs[0].Bases)
	}
}

// TestStreamSourceFastaHeaderAtEOF is the true failure case: a header
// with nothing at all following it at EOF.
func TestStreamSourceFastaHeaderAtEOF(t *testing.T) {
	p := writeTemp(t, "in.fa", ">seq1\nACGT\n>seq2")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	defer src.Close()

	rec, ok, err := src.Next()
	if err != nil || !ok {
		t.Fatalf("first record: rec=%+v ok=%v err=%v", rec, ok, err)
	}

	_, ok, err = src.Next()
	if err == nil || ok {
		t.Fatalf("want FormatError on header-at-EOF, got ok=%v err=%v", ok, err)
	}
	if _, isFormatErr := err.(*FormatError); !isFormatErr {
		t.Errorf("err type = %T, want *FormatError", err)
	}
}

func TestStreamSourceFastq(t *testing.T) {
	p := writeTemp(t, "in.fq", "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n+r2\nIIII\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	recs := drainSource(t, src)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Header != "r1" || string(recs[0].Bases) != "ACGT" {
		t.Errorf("recs[0] = %+v", recs[0])
	}
}

func TestStreamSourceFastqTruncated(t *testing.T) {
	p := writeTemp(t, "in.fq", "@r1\nACGT\n+\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	defer src.Close()

	_, ok, err := src.Next()
	if err == nil || ok {
		t.Fatalf("want FormatError on truncated FASTQ, got ok=%v err=%v", ok, err)
	}
}

func TestStreamSourceSyntheticHeaders(t *testing.T) {
	p := writeTemp(t, "in.fa", ">real header\nACGT\n")
	src, err := NewStreamSource(p, true)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	recs := drainSource(t, src)
	if recs[0].Header != "seq_0" {
		t.Errorf("Header = %q, want synthetic seq_0", recs[0].Header)
	}
}

func TestStreamSourceGzip(t *testing.T) {
	p := writeTempGzip(t, "in.fa.gz", ">seq1\nACGT\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	recs := drainSource(t, src)
	if len(recs) != 1 || string(recs[0].Bases) != "ACGT" {
		t.Fatalf("recs = %+v", recs)
	}
}

func TestStreamSourceUnrecognizedFormat(t *testing.T) {
	p := writeTemp(t, "in.txt", "not a sequence file\n")
	if _, err := NewStreamSource(p, false); err == nil {
		t.Fatal("want error for unrecognized format")
	}
}

func TestStreamSourceCountUnknown(t *testing.T) {
	p := writeTemp(t, "in.fa", ">s\nAC\n")
	src, err := NewStreamSource(p, false)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	defer src.Close()
	if _, known := src.Count(); known {
		t.Error("streaming source should never report a known count")
	}
}
