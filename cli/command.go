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
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/transcode"
	"github.com/logrange/geotime/pkg/util"
	"github.com/pkg/errors"
)

type (
	command struct {
		name    string
		matcher *regexp.Regexp
		cmdFn   cmdFn
		help    string
	}

	shellCfg struct {
		cfg    *Config
		now    time.Time
		mapper *geo.Mapper
		arg    string
		out    io.Writer
		quit   bool
	}

	cmdFn func(ctx context.Context, sc *shellCfg) error
)

const (
	cmdSetOptName = "setoption"
	cmdQuitName   = "quit"
	cmdHelpName   = "help"

	varArg = "arg"
)

var commands []command

func init() {
	commands = []command{
		{
			name:    ProcGeo2T,
			matcher: regexp.MustCompile("(?i)^geo2t\\s+(?P<" + varArg + ">.+)$"),
			cmdFn:   processFn(ProcGeo2T),
			help:    "convert boxes to time ranges, e.g. 'geo2t BOX(0 0, 0.5 1)', or the lines of files 'geo2t < /data/**/*.wkt'",
		},
		{
			name:    ProcT2Geo,
			matcher: regexp.MustCompile("(?i)^t2geo\\s+(?P<" + varArg + ">.+)$"),
			cmdFn:   processFn(ProcT2Geo),
			help:    "convert time ranges to boxes, e.g. 't2geo 2000-01-01--2000-01-03, 2019-10-01T10:00:00--'",
		},
		{
			name:    ProcNorm,
			matcher: regexp.MustCompile("(?i)^norm\\s+(?P<" + varArg + ">.+)$"),
			cmdFn:   processFn(ProcNorm),
			help:    "merge time ranges, e.g. 'norm 2000-01-01--2000-01-03 2000-01-04'",
		},
		{
			name: cmdSetOptName,
			matcher: regexp.MustCompile("(?i)^(?:(setoption$|setopt$)|(setoption|setopt)\\s+(?P<" +
				varArg + ">.+))"),
			cmdFn: setoptFn,
			help:  "show or set options, e.g. 'setopt error-marker=ERR now=2019-10-01T10:00:00'",
		},
		{
			name:    cmdQuitName,
			matcher: regexp.MustCompile("(?i)^(?:quit|exit)$"),
			cmdFn:   quitFn,
			help:    "exit the program",
		},
		{
			name:    cmdHelpName,
			matcher: regexp.MustCompile("(?i)^help$"),
			cmdFn:   helpFn,
			help:    "show help",
		},
	}
}

func newShellCfg(cfg *Config, out io.Writer, now time.Time) (*shellCfg, error) {
	m, err := cfg.Mapper(now)
	if err != nil {
		return nil, err
	}
	return &shellCfg{cfg: cfg, now: now, mapper: m, out: out}, nil
}

func execCmd(ctx context.Context, input string, sc *shellCfg) error {
	for _, d := range commands {
		if !d.matcher.MatchString(input) {
			continue
		}
		sc.arg = getInputVars(d.matcher, input)[varArg]
		return d.cmdFn(ctx, sc)
	}
	return fmt.Errorf("unknown command=%v, try 'help'", input)
}

func getInputVars(re *regexp.Regexp, input string) map[string]string {
	match := re.FindStringSubmatch(input)
	varsMap := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && i < len(match) && name != "" {
			varsMap[name] = match[i]
		}
	}
	return varsMap
}

//===================== processors =====================

func processFn(name string) cmdFn {
	return func(ctx context.Context, sc *shellCfg) error {
		proc, err := NewProcessor(name, sc.mapper)
		if err != nil {
			return err
		}
		if strings.HasPrefix(sc.arg, "<") {
			return processFiles(ctx, proc, strings.Fields(sc.arg[1:]), sc)
		}
		res, err := proc.Process(sc.arg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(sc.out, res)
		return err
	}
}

// processFiles converts the lines of the files matched by patterns, ctx
// interrupts the processing between lines
func processFiles(ctx context.Context, proc transcode.LineProcessor, patterns []string, sc *shellCfg) error {
	files, err := util.ExpandPaths(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Wrapf(util.ErrNoInputs, "patterns %v", patterns)
	}

	runner := transcode.NewRunner(proc, sc.cfg.ErrorMarker, sc.cfg.BufSize)
	st, err := runFiles(ctx, runner, files, sc.out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(sc.out, "done", st)
	return err
}

//===================== setopt =====================

func setoptFn(_ context.Context, sc *shellCfg) error {
	if sc.arg == "" {
		_, err := fmt.Fprintln(sc.out, sc.cfg)
		return err
	}

	cfg := *sc.cfg
	if err := cfg.ApplyOptions(sc.arg); err != nil {
		return err
	}
	m, err := cfg.Mapper(sc.now)
	if err != nil {
		return err
	}

	*sc.cfg = cfg
	sc.mapper = m
	_, err = fmt.Fprintln(sc.out, sc.cfg)
	return err
}

//===================== quit =====================

func quitFn(_ context.Context, sc *shellCfg) error {
	sc.quit = true
	return nil
}

//===================== help =====================

func helpFn(_ context.Context, sc *shellCfg) error {
	fmt.Fprint(sc.out, "\n\tThe following commands are supported:\n")
	for _, c := range commands {
		fmt.Fprintf(sc.out, "\n\t%-15s %s", c.name, c.help)
	}
	fmt.Fprint(sc.out, "\n\n")
	return nil
}
