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
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapSource is the memory-mapped SequenceSource: the whole file is
// mapped read-only and scanned with plain byte-offset arithmetic
// (newline search for FASTQ, '>'-search for FASTA), as
// original_source/include/seq.h's SeqReader does over kseq. Unlike the
// streaming source, Count() is always known, which is what lets the
// CLI pick random-access OutputSink mode.
type mmapSource struct {
	f       *os.File
	mm      mmap.MMap
	data    []byte
	pos     int
	nextID  int
	isFastq bool

	synthetic bool
}

// NewMmapSource maps path read-only and detects FASTA vs FASTQ from its
// first byte that is not '\n' or '\r' ('>' or '@').
func NewMmapSource(path string, synthetic bool) (SequenceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIoError(fmt.Sprintf("open %s", path), err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, NewIoError(fmt.Sprintf("mmap %s", path), err)
	}

	data := []byte(m)
	start := 0
	for start < len(data) && (data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		m.Unmap()
		f.Close()
		return nil, NewFormatError(-1, "empty input file: %s", path)
	}

	var isFastq bool
	switch data[start] {
	case '@':
		isFastq = true
	case '>':
		isFastq = false
	default:
		m.Unmap()
		f.Close()
		return nil, NewFormatError(-1, "unrecognized format (expected '>' or '@'): %s", path)
	}

	return &mmapSource{f: f, mm: m, data: data, pos: start, isFastq: isFastq, synthetic: synthetic}, nil
}

// Count scans the mapped bytes for record delimiters without moving
// the read cursor: FASTA count is the number of '>' bytes, FASTQ count
// is (newlines+1)/4.
func (s *mmapSource) Count() (int, bool) {
	if s.isFastq {
		nl := bytes.Count(s.data, []byte{'\n'})
		return (nl + 1) / 4, true
	}
	return bytes.Count(s.data, []byte{'>'}), true
}

func (s *mmapSource) Next() (Record, bool, error) {
	if s.pos >= len(s.data) {
		return Record{}, false, nil
	}
	if s.isFastq {
		return s.nextFastq()
	}
	return s.nextFasta()
}

// line returns data[pos:eol] (excluding the trailing '\r' if present)
// and the offset just past the '\n', or len(data) with ok=false if pos
// is already at EOF.
func (s *mmapSource) line(pos int) (content []byte, next int, ok bool) {
	if pos >= len(s.data) {
		return nil, pos, false
	}
	nl := bytes.IndexByte(s.data[pos:], '\n')
	if nl < 0 {
		end := len(s.data)
		return trimCR(s.data[pos:end]), end, true
	}
	end := pos + nl
	return trimCR(s.data[pos:end]), end + 1, true
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func (s *mmapSource) nextFasta() (Record, bool, error) {
	header, next, ok := s.line(s.pos)
	if !ok || len(header) == 0 || header[0] != '>' {
		return Record{}, false, NewFormatError(s.nextID, "expected FASTA header at offset %d", s.pos)
	}
	if next >= len(s.data) {
		return Record{}, false, NewFormatError(s.nextID, "FASTA header with no following base line at EOF")
	}
	if s.data[next] == '>' {
		return Record{}, false, NewFormatError(s.nextID, "FASTA header with no following base line")
	}

	bodyStart := next
	bodyEnd := len(s.data)
	if idx := bytes.Index(s.data[bodyStart:], []byte("\n>")); idx >= 0 {
		bodyEnd = bodyStart + idx + 1
	}

	raw := s.data[bodyStart:bodyEnd]
	bases := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b != '\n' && b != '\r' {
			bases = append(bases, b)
		}
	}

	s.pos = bodyEnd
	return s.makeRecord(string(header[1:]), bases), true, nil
}

func (s *mmapSource) nextFastq() (Record, bool, error) {
	header, next, ok := s.line(s.pos)
	if !ok {
		return Record{}, false, nil
	}
	if len(header) == 0 || header[0] != '@' {
		return Record{}, false, NewFormatError(s.nextID, "expected FASTQ header at offset %d", s.pos)
	}

	bases, next, ok := s.line(next)
	if !ok {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing sequence line")
	}

	plus, next, ok := s.line(next)
	if !ok || len(plus) == 0 || plus[0] != '+' {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing '+' line")
	}

	_, next, ok = s.line(next)
	if !ok {
		return Record{}, false, NewFormatError(s.nextID, "truncated FASTQ record: missing quality line")
	}

	basesCopy := make([]byte, len(bases))
	copy(basesCopy, bases)

	s.pos = next
	return s.makeRecord(string(header[1:]), basesCopy), true, nil
}

func (s *mmapSource) makeRecord(header string, bases []byte) Record {
	id := s.nextID
	s.nextID++
	if s.synthetic {
		header = fmt.Sprintf("seq_%d", id)
	}
	return Record{SeqID: id, Header: header, Bases: bases}
}

func (s *mmapSource) Close() error {
	if err := s.mm.Unmap(); err != nil {
		s.f.Close()
		return NewIoError("unmap input file", err)
	}
	return s.f.Close()
}
