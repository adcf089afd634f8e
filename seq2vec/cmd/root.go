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

package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/anuradhawick/seq2vec"
)

// VERSION is the seq2vec release version.
const VERSION = "0.1.0"

// RootCmd is seq2vec's single command: this tool has one job, unlike
// its teacher's many subcommands.
var RootCmd = &cobra.Command{
	Use:   "seq2vec",
	Short: "normalized canonical k-mer frequency vectorizer",
	Long: fmt.Sprintf(`seq2vec - normalized canonical k-mer frequency vectorizer

Turns each FASTA/FASTQ record into a fixed-length normalized frequency
vector over canonical (strand-collapsed) k-mers, one line per input
record. Lines are written in ascending seq_id order, except in streaming
output mode (--stream, stdin or gzipped input), where they appear in
completion order.

Version: %s

`, VERSION),
	Run: runVectorize,
}

// Execute adds all child commands (there are none beyond RootCmd
// itself) and runs the program. Called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().StringP("file", "f", "", "input FASTA/FASTQ file, optionally gzipped (required)")
	RootCmd.Flags().StringP("output", "o", "", "output file path (required)")
	RootCmd.Flags().IntP("k-size", "k", 3, "k-mer size, 1..15")
	RootCmd.Flags().IntP("threads", "t", 8, "worker count")
	RootCmd.Flags().StringP("preset", "x", "csv", `output separator preset, "csv" or "tsv"`)
	RootCmd.Flags().BoolP("synthetic-headers", "g", false, `replace each record's header with "seq_<id>" (headers are not written to output, but future tooling built on Record benefits from this)`)
	RootCmd.Flags().BoolP("verbose", "v", false, "print per-stage progress")
	RootCmd.Flags().Bool("stream", false, "force streaming output even when the record count is known; automatic when it is not (e.g. stdin)")
}

func runVectorize(cmd *cobra.Command, args []string) {
	start := time.Now()

	file := getFlagString(cmd, "file")
	if file == "" {
		checkError(seq2vec.NewConfigError("flag -f/--file is required"))
	}
	output := getFlagString(cmd, "output")
	if output == "" {
		checkError(seq2vec.NewConfigError("flag -o/--output is required"))
	}
	k := getFlagInt(cmd, "k-size")
	threads := getFlagPositiveInt(cmd, "threads")
	preset := getFlagString(cmd, "preset")
	synthetic := getFlagBool(cmd, "synthetic-headers")
	verbose := getFlagBool(cmd, "verbose")
	forceStream := getFlagBool(cmd, "stream")

	var sep byte
	switch preset {
	case "csv":
		sep = ','
	case "tsv":
		sep = '\t'
	default:
		checkError(seq2vec.NewConfigError(`unknown preset %q, want "csv" or "tsv"`, preset))
	}

	stdin := file == "-"
	gzipped := false
	output = expandPath(output)
	if stdin {
		// stdin cannot be memory-mapped: mmap.Map requires a
		// seekable, sized file descriptor.
		forceStream = true
	} else {
		file = expandPath(file)
		checkFileExists(file)
		// gzipped input cannot be read by the memory-mapped source
		// either: only the streaming source decompresses.
		if fh, err := os.Open(file); err == nil {
			magic := make([]byte, 2)
			n, _ := fh.Read(magic)
			gzipped = n == 2 && magic[0] == 0x1f && magic[1] == 0x8b
			fh.Close()
		}
	}

	runtime.GOMAXPROCS(threads)

	index, err := seq2vec.BuildCanonicalIndex(k)
	checkError(err)
	profiler := seq2vec.NewKmerProfiler(index)
	formatter := seq2vec.NewFormatter(index.FeatureCount(), sep)

	if verbose {
		log.Infof("input file: %s", file)
		log.Infof("k=%d, canonical feature count=%d", k, index.FeatureCount())
	}

	var source seq2vec.SequenceSource
	if stdin || gzipped {
		source, err = seq2vec.NewStreamSource(file, synthetic)
	} else {
		source, err = seq2vec.NewMmapSource(file, synthetic)
	}
	checkError(errors.Wrap(err, file))
	defer source.Close()

	n, known := source.Count()
	if verbose && known {
		log.Infof("%d record(s) found", n)
	}

	useStream := forceStream || !known

	var sink seq2vec.OutputSink
	if useStream {
		sink, err = seq2vec.NewStreamSink(output)
	} else {
		sink, err = seq2vec.NewMmapSink(output, n, formatter.RecordWidth())
	}
	checkError(errors.Wrap(err, output))
	defer sink.Close()

	pipeline := seq2vec.NewParallelPipeline(source, profiler, formatter, sink, threads)
	stats, err := pipeline.Run()
	checkError(err)

	if verbose {
		elapsed := time.Since(start)
		printSummary(runSummary{
			file:         file,
			output:       output,
			k:            k,
			featureCount: index.FeatureCount(),
			records:      stats.RecordsProcessed,
			elapsed:      elapsed,
		})
		if size, err := outputSize(output); err == nil {
			log.Infof("wrote %s to %s", humanize.Bytes(uint64(size)), output)
		}
	}
}
