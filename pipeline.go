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
	"sync"
	"sync/atomic"
)

// ParallelPipeline drives the full computation: it pulls records from a
// SequenceSource under a single mutex, dispatches profiling to a fixed
// pool of goroutines, and writes each record's formatted line to an
// OutputSink.
//
// Grounded on original_source/include/mode_mmap.h's
// asio::thread_pool + reader_mux worker loop, translated to goroutines
// and sync.Mutex/sync.WaitGroup in the idiom of
// unikmer/cmd/db-index.go's worker-pool loops. The source call is the
// only contended region; k-mer counting runs fully in parallel.
type ParallelPipeline struct {
	source    SequenceSource
	profiler  *KmerProfiler
	formatter *Formatter
	sink      OutputSink
	threads   int
}

// NewParallelPipeline builds a pipeline over the given collaborators.
// threads is clamped to at least 1.
func NewParallelPipeline(source SequenceSource, profiler *KmerProfiler, formatter *Formatter, sink OutputSink, threads int) *ParallelPipeline {
	if threads < 1 {
		threads = 1
	}
	return &ParallelPipeline{source: source, profiler: profiler, formatter: formatter, sink: sink, threads: threads}
}

// Stats summarizes a completed run.
type Stats struct {
	RecordsProcessed int64
}

// Run drives the pipeline to completion: it returns once every record
// produced by the source has been profiled and written, or the first
// fatal error encountered by any worker (a malformed record or an I/O
// failure — a run has no per-record recovery, per the error-handling
// policy). In-flight records from other workers may be lost when a
// fatal error aborts the run.
func (p *ParallelPipeline) Run() (Stats, error) {
	var readerMu sync.Mutex
	var wg sync.WaitGroup
	var processed int64

	errOnce := make(chan error, 1)
	reportErr := func(err error) {
		select {
		case errOnce <- err:
		default:
		}
	}

	for w := 0; w < p.threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Scratch buffer reused across every record this worker
			// handles; only the format-then-write step touches it.
			buf := make([]byte, 0, p.formatter.RecordWidth())

			for {
				readerMu.Lock()
				rec, ok, err := p.source.Next()
				readerMu.Unlock()

				if err != nil {
					reportErr(err)
					return
				}
				if !ok {
					return
				}

				profile := p.profiler.Profile(rec.Bases)

				buf = buf[:0]
				buf = p.formatter.AppendTo(buf, profile)

				if err := p.sink.WriteRecord(rec.SeqID, buf); err != nil {
					reportErr(err)
					return
				}

				atomic.AddInt64(&processed, 1)
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errOnce:
		return Stats{RecordsProcessed: processed}, err
	default:
	}

	return Stats{RecordsProcessed: processed}, nil
}
