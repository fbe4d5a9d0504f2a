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

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrivets/log4g"
	ucmd "github.com/logrange/geotime/cmd"
	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/transcode"
	"github.com/logrange/geotime/pkg/util"
	"github.com/mohae/deepcopy"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

type (
	shell struct {
		cfg   *Config
		hfile string
	}
)

const (
	shellHistoryFileName = ".geotime_history"

	ProcGeo2T = "geo2t"
	ProcT2Geo = "t2geo"
	ProcNorm  = "norm"
)

var logger = log4g.GetLogger("geotime.cli")

// Transcode runs the processor procName over the inputs of cfg, or stdin if
// there are no inputs, and writes the results to the output file of cfg, or
// to stdout. The output file is locked while it is written.
func Transcode(ctx context.Context, cfg *Config, procName string) error {
	if err := cfg.Check(); err != nil {
		return err
	}
	cfg = deepcopy.Copy(cfg).(*Config)

	m, err := cfg.Mapper(time.Now())
	if err != nil {
		return err
	}
	proc, err := NewProcessor(procName, m)
	if err != nil {
		return err
	}
	files, err := util.ExpandPaths(cfg.Inputs)
	if err != nil {
		return err
	}
	if len(cfg.Inputs) > 0 && len(files) == 0 {
		return errors.Wrapf(util.ErrNoInputs, "patterns %v", cfg.Inputs)
	}

	var out io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		lf, err := ucmd.LockOutput(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer lf.Unlock()

		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return errors.Wrapf(err, "could not create output file %s", cfg.OutputFile)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	runner := transcode.NewRunner(proc, cfg.ErrorMarker, cfg.BufSize)
	total, err := runFiles(ctx, runner, files, bw)
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = errors.Wrapf(ferr, "could not write results")
	}
	logger.Info(procName, " is done, stats=", total)
	return err
}

// NewProcessor returns the line processor by its name
func NewProcessor(name string, m *geo.Mapper) (transcode.LineProcessor, error) {
	switch strings.ToLower(name) {
	case ProcGeo2T:
		return transcode.NewGeo2T(m), nil
	case ProcT2Geo:
		return transcode.NewT2Geo(m), nil
	case ProcNorm:
		return transcode.Norm{}, nil
	}
	return nil, errors.Errorf("unknown processor %q, expecting one of %s, %s, %s", name, ProcGeo2T, ProcT2Geo, ProcNorm)
}

func runFiles(ctx context.Context, runner *transcode.Runner, files []string, w io.Writer) (transcode.Stats, error) {
	if len(files) == 0 {
		return runner.Run(ctx, os.Stdin, w)
	}

	var total transcode.Stats
	for _, fn := range files {
		f, err := os.Open(fn)
		if err != nil {
			return total, errors.Wrapf(err, "could not open input file %s", fn)
		}
		st, err := runner.Run(ctx, f, w)
		f.Close()

		total.Lines += st.Lines
		total.Failed += st.Failed
		total.Bytes += st.Bytes
		if st.Failed > 0 {
			logger.Warn(st.Failed, " line(s) of ", fn, " could not be converted")
		}
		if err != nil {
			return total, errors.Wrapf(err, "%s", fn)
		}
		logger.Debug(fn, " is processed, stats=", st)
	}
	return total, nil
}

// Shell runs the interactive shell with the settings of cfg
func Shell(cfg *Config) error {
	if err := cfg.Check(); err != nil {
		return err
	}
	newShell(deepcopy.Copy(cfg).(*Config), historyFilePath()).run()
	return nil
}

func historyFilePath() string {
	var fileDir = os.TempDir()
	usr, err := user.Current()
	if err == nil {
		fileDir = usr.HomeDir
	}
	return filepath.Join(fileDir, shellHistoryFileName)
}

func printError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
}

//===================== shell =====================

func newShell(cfg *Config, hFile string) *shell {
	s := new(shell)
	s.cfg = cfg
	s.hfile = hFile
	return s
}

func (s *shell) run() {
	lnr := liner.NewLiner()
	lnr.SetCtrlCAborts(true)

	s.loadHistory(lnr)
	beforeQuit := func() {
		s.saveHistory(lnr)
		_ = lnr.Close()
		fmt.Println("bye!")
	}

	defer beforeQuit()
	sc, err := newShellCfg(s.cfg, os.Stdout, time.Now())
	if err != nil {
		printError(err)
		return
	}

	for {
		inp, err := lnr.Prompt("geotime> ")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
			printError(err)
			continue
		}

		inp = strings.TrimSpace(inp)
		if inp == "" {
			continue
		}

		lnr.AppendHistory(inp)
		ctx, cancel := context.WithCancel(context.Background())
		stop := ucmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
			cancel()
		})

		err = execCmd(ctx, inp, sc)
		stop()
		cancel()
		if err != nil {
			printError(err)
		}
		if sc.quit {
			return
		}
	}
}

func (s *shell) loadHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_RDONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.ReadHistory(f); err != nil {
		printError(err)
	}
}

func (s *shell) saveHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.WriteHistory(f); err != nil {
		printError(err)
	}
}
