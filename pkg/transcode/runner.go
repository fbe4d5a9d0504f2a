// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/logrange/geotime/pkg/util"
	rbytes "github.com/logrange/range/pkg/utils/bytes"
	"github.com/pkg/errors"
)

type (
	// Runner reads lines from a stream, converts them by the LineProcessor
	// and writes the results, one line per input line. The text up to the
	// first tab is written as is. A line which could not be converted is
	// replaced by the error marker and the processing goes on.
	Runner struct {
		proc      LineProcessor
		errMarker string
		bufSize   int
		logger    log4g.Logger
	}

	// Stats contains the counters of a Runner's run. Bytes is the size of
	// the lines read, without the line terminators.
	Stats struct {
		Lines  int64
		Failed int64
		Bytes  int64
	}
)

const (
	// DefaultBufSize is the default read buffer size. Longer lines are
	// supported, they are just read in several chunks.
	DefaultBufSize = 64 * 1024
	minBufSize     = 16
)

// NewRunner returns the Runner for the processor proc
func NewRunner(proc LineProcessor, errMarker string, bufSize int) *Runner {
	if bufSize < minBufSize {
		bufSize = DefaultBufSize
	}
	return &Runner{
		proc:      proc,
		errMarker: errMarker,
		bufSize:   bufSize,
		logger:    log4g.GetLogger("geotime.transcode"),
	}
}

// Run processes the lines of in until EOF and writes the results to out. It
// returns the read or write error, or the ctx error if ctx is closed before
// all lines are processed.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var st Stats
	br := bufio.NewReaderSize(in, r.bufSize)

	var w rbytes.Writer
	w.Init(256, new(rbytes.Pool))
	defer w.Close()

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		line, err := readLine(br)
		if err != nil && err != io.EOF {
			return st, errors.Wrapf(err, "could not read line %d", st.Lines+1)
		}
		if len(line) == 0 && err == io.EOF {
			return st, nil
		}

		st.Lines++
		st.Bytes += int64(len(line))
		w.Reset()
		r.processLine(&w, line, &st)
		w.WriteByte('\n')
		if _, werr := out.Write(w.Buf()); werr != nil {
			return st, errors.Wrapf(werr, "could not write result of line %d", st.Lines)
		}

		if err == io.EOF {
			return st, nil
		}
	}
}

func (r *Runner) processLine(w *rbytes.Writer, line []byte, st *Stats) {
	s := rbytes.ByteArrayToString(line)
	if idx := strings.IndexByte(s, '\t'); idx >= 0 {
		w.WriteString(s[:idx+1])
		s = s[idx+1:]
	}

	res, err := r.proc.Process(s)
	if err != nil {
		st.Failed++
		r.logger.Debug("line ", st.Lines, " is skipped, err=", err)
		w.WriteString(r.errMarker)
		return
	}
	w.WriteString(res)
}

// readLine returns the next line without the line terminator. The returned
// slice is valid until the next read from br. io.EOF is returned together
// with the last line, if it is not terminated.
func readLine(br *bufio.Reader) ([]byte, error) {
	var buf []byte
	for {
		line, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			buf = append(buf, line...)
			continue
		}
		if len(buf) > 0 {
			line = append(buf, line...)
		}
		if err == nil {
			line = line[:len(line)-1]
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
		}
		return line, err
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("{lines=%s, failed=%s, read=%s}", humanize.Comma(s.Lines), humanize.Comma(s.Failed),
		util.FormatSize(s.Bytes))
}
