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

import "fmt"

// ConfigError marks an invalid run configuration: a bad k, a missing
// flag, an unknown preset. It exits with code 1 at the CLI layer.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config error: %s", e.Msg) }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IoError wraps an open/read/write/mmap failure.
type IoError struct {
	Msg string
	Err error
}

func (e *IoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("io error: %s: %s", e.Msg, e.Err)
	}
	return fmt.Sprintf("io error: %s", e.Msg)
}

func (e *IoError) Unwrap() error { return e.Err }

// NewIoError wraps err with a message describing the failing operation.
func NewIoError(msg string, err error) *IoError {
	return &IoError{Msg: msg, Err: err}
}

// FormatError marks a malformed record: a truncated FASTQ block, a FASTA
// header with no following base line. RecordID is the 0-based sequence
// index that was being read when the error was detected, or -1 if none
// had been assigned yet.
type FormatError struct {
	Msg      string
	RecordID int
}

func (e *FormatError) Error() string {
	if e.RecordID >= 0 {
		return fmt.Sprintf("format error: record %d: %s", e.RecordID, e.Msg)
	}
	return fmt.Sprintf("format error: %s", e.Msg)
}

// NewFormatError builds a FormatError for the given record id (-1 if
// unknown).
func NewFormatError(recordID int, format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...), RecordID: recordID}
}

// ResourceError marks failure to acquire a process resource, such as the
// worker pool.
type ResourceError struct {
	Msg string
	Err error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resource error: %s: %s", e.Msg, e.Err)
	}
	return fmt.Sprintf("resource error: %s", e.Msg)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// NewResourceError wraps err with a message describing the unavailable
// resource.
func NewResourceError(msg string, err error) *ResourceError {
	return &ResourceError{Msg: msg, Err: err}
}
