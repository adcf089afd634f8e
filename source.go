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
	"bufio"
	"fmt"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
)

// Record is one (seq_id, header, bases) tuple yielded by a
// SequenceSource. seq_id is assigned monotonically from 0 at yield
// time and uniquely identifies the output row.
type Record struct {
	SeqID  int
	Header string
	Bases  []byte
}

// SequenceSource is a polymorphic FASTA/FASTQ reader. All
// implementations are safe to call Next on from a single caller at a
// time; ParallelPipeline is the one place that serializes concurrent
// callers behind a mutex.
type SequenceSource interface {
	// Next returns the next record, or ok=false at end of stream.
	Next() (rec Record, ok bool, err error)
	// Count returns the total number of records, if known.
	Count() (n int, known bool)
	// Close releases any resource (open file, mapped region) held by
	// the source.
	Close() error
}

// format is the sequence file format, detected from the first
// non-blank line.
type format int

const (
	formatUnknown format = iota
	formatFASTA
	formatFASTQ
)

// streamSource is the streaming FASTA/FASTQ reader: it parses
// line-by-line over a bufio.Scanner, concatenating multi-line FASTA
// bodies and discarding FASTQ quality lines, per spec.md §4.3. gzip
// input is auto-detected and decompressed the way
// unikmer/cmd/util-io.go's inStream/isGzip do it, keeping that logic
// in this repo's own code rather than behind another reader type.
type streamSource struct {
	f         *os.File
	br        *bufio.Reader
	sc        *bufio.Scanner
	format    format
	pending   string // a line already read while detecting format or delimiting a record
	hasPend   bool
	nextID    int
	synthetic bool
	done      bool
}

// NewStreamSource opens path (FASTA/FASTQ, optionally gzipped) for
// streaming, one-record-at-a-time reads. When synthetic is true, every
// record's header is replaced with "seq_<id>".
func NewStreamSource(path string, synthetic bool) (SequenceSource, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		opened, err := os.Open(path)
		if err != nil {
			return nil, NewIoError(fmt.Sprintf("open %s", path), err)
		}
		f = opened
	}

	br := bufio.NewReaderSize(f, os.Getpagesize())
	gzipped, err := isGzip(br)
	if err != nil {
		f.Close()
		return nil, NewIoError(fmt.Sprintf("peek %s", path), err)
	}

	var r io.Reader = br
	if gzipped {
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, NewIoError(fmt.Sprintf("open gzip %s", path), err)
		}
		r = gr
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024*1024)

	s := &streamSource{f: f, sc: sc, synthetic: synthetic}

	line, ok := s.readLine()
	for ok && line == "" {
		line, ok = s.readLine()
	}
	if !ok {
		s.done = true
		return s, nil
	}

	switch line[0] {
	case '>':
		s.format = formatFASTA
	case '@':
		s.format = formatFASTQ
	default:
		f.Close()
		return nil, NewFormatError(-1, "unrecognized format (expected '>' or '@'): %s", path)
	}
	s.pending = line
	s.hasPend = true

	return s, nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	magic, err := b.Peek(2)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return magic[0] == 0x1f && magic[1] == 0x8b, nil
}

func (s *streamSource) readLine() (string, bool) {
	if s.hasPend {
		s.hasPend = false
		return s.pending, true
	}
	if !s.sc.Scan() {
		return "", false
	}
	return s.sc.Text(), true
}

func (s *streamSource) unread(line string) {
	s.pending = line
	s.hasPend = true
}

func (s *streamSource) Next() (Record, bool, error) {
	if s.done {
		return Record{}, false, nil
	}
	if s.format == formatFASTA {
		return s.nextFasta()
	}
	return s.nextFastq()
}

func (s *streamSource) nextFasta() (Record, bool, error) {
	header, ok := s.readLine()
	if !ok {
		s.done = true
		return Record{}, false, nil
	}
	if len(header) == 0 || header[0] != '>' {
		return Record{}, false, NewFormatError(s.nextID, "expected FASTA header, got: %q", header)
	}

	var bases []byte
	var bodyLines int
	for {
		line, ok := s.readLine()
		if !ok {
			s.done = true
			break
		}
		bodyLines++
		if len(line) > 0 && line[0] == '>' {
			s.unread(line)
			bodyLines--
			break
		}
		bases = append(bases, line...)
	}

	if bodyLines == 0 {
		return Record{}, false, NewFormatError(s.nextID, "FASTA header with no following base line at EOF")
	}

	return s.makeRecord(header[1:], bases), true, nil
}

func (s *streamSource) nextFastq() (Record, bool, error) {
	header, ok := s.readLine()
	if !ok {
		s.done = true
		return Record{}, false, nil
	}
	if len(header) == 0 || header[0] != '@' {
		return Record{}, false, NewFormatError(s.nextID, "expected FASTQ header, got: %q", header)
	}

	bases, ok := s.readLine()
	if !ok {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing sequence line")
	}

	plus, ok := s.readLine()
	if !ok || len(plus) == 0 || plus[0] != '+' {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing '+' line")
	}

	if _, ok := s.readLine(); !ok {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing quality line")
	}

	return s.makeRecord(header[1:], []byte(bases)), true, nil
}

func (s *streamSource) makeRecord(header string, bases []byte) Record {
	id := s.nextID
	s.nextID++
	if s.synthetic {
		header = fmt.Sprintf("seq_%d", id)
	}
	return Record{SeqID: id, Header: header, Bases: bases}
}

// Count is always unknown for the streaming source: counting would
// require a second pass over a stream that may be stdin or a pipe.
func (s *streamSource) Count() (int, bool) { return 0, false }

func (s *streamSource) Close() error { return s.f.Close() }
