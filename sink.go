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
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// OutputSink accepts one formatted record at a time from many
// concurrent workers.
type OutputSink interface {
	// WriteRecord writes the already-formatted line for seqID. In
	// random-access mode it lands at seqID*recordWidth regardless of
	// call order; in streaming mode it is appended in call order.
	WriteRecord(seqID int, line []byte) error
	// Close flushes and releases the sink's resources.
	Close() error
}

// mmapSink is the random-access OutputSink: the output file is
// pre-sized to totalRecords*recordWidth and mapped read/write: each
// worker's memcpy lands in a disjoint byte range, so no coordination
// is needed between writers. Grounded on
// original_source/include/mode_mmap.h's mapped_file_sink +
// memcpy(sptr + seq_id*per_line_size, ...).
type mmapSink struct {
	f           *os.File
	mm          mmap.MMap
	recordWidth int
}

// NewMmapSink creates (or truncates) path to exactly
// totalRecords*recordWidth bytes and maps it read/write.
func NewMmapSink(path string, totalRecords, recordWidth int) (OutputSink, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, NewIoError(fmt.Sprintf("create %s", path), err)
	}

	size := int64(totalRecords) * int64(recordWidth)
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, NewIoError(fmt.Sprintf("size %s", path), err)
		}
	}

	m, err := mmap.MapRegion(f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, NewIoError(fmt.Sprintf("mmap %s", path), err)
	}

	return &mmapSink{f: f, mm: m, recordWidth: recordWidth}, nil
}

func (s *mmapSink) WriteRecord(seqID int, line []byte) error {
	off := seqID * s.recordWidth
	if off < 0 || off+len(line) > len(s.mm) {
		return NewIoError(fmt.Sprintf("record %d out of bounds", seqID), nil)
	}
	copy(s.mm[off:off+len(line)], line)
	return nil
}

func (s *mmapSink) Close() error {
	if err := s.mm.Flush(); err != nil {
		s.mm.Unmap()
		s.f.Close()
		return NewIoError("flush output file", err)
	}
	if err := s.mm.Unmap(); err != nil {
		s.f.Close()
		return NewIoError("unmap output file", err)
	}
	return s.f.Close()
}

// streamSink is the streaming OutputSink: a single buffered writer
// guarded by a mutex. Records may land in any order; callers needing
// seqID order must use mmapSink. Finishes the skeleton left in
// original_source/include/mode_batch.h.
type streamSink struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// NewStreamSink opens (or truncates) path for buffered, mutex-guarded
// appends.
func NewStreamSink(path string) (OutputSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, NewIoError(fmt.Sprintf("create %s", path), err)
	}
	return &streamSink{f: f, w: bufio.NewWriterSize(f, os.Getpagesize())}, nil
}

func (s *streamSink) WriteRecord(_ int, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return NewIoError("write record", err)
	}
	return nil
}

func (s *streamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return NewIoError("flush output file", err)
	}
	return s.f.Close()
}
