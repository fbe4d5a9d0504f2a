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

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jrivets/log4g"
	"github.com/logrange/geotime"
	"github.com/logrange/geotime/cli"
	"github.com/logrange/geotime/cmd"
	ucli "gopkg.in/urfave/cli.v2"
)

const (
	argCfgFile    = "config-file"
	argLogCfgFile = "log-config-file"
	argOpts       = "opts"
	argOutFile    = "out"
	argErrMarker  = "error-marker"
	argNow        = "now"
)

var (
	logger = log4g.GetLogger("geotime")
)

// main function is an entry point for 'geotime' command. It groups the
// transcoding tools in one executable:
// 		geo2t 	- converts boxes to validity and system time ranges
//		t2geo	- converts validity and system time ranges to boxes
// 		norm    - merges the overlapping and adjacent time ranges
// 		shell   - is an interactive CLI to try the conversions
func main() {
	defer log4g.Shutdown()

	cmnFlags := []ucli.Flag{
		&ucli.StringFlag{
			Name:  argCfgFile,
			Usage: "configuration file path",
		},
		&ucli.StringFlag{
			Name:  argLogCfgFile,
			Usage: "log4g configuration file path",
		},
		&ucli.StringFlag{
			Name:  argOpts,
			Usage: "options in logfmt, e.g. \"ref-epoch=2000-01-01 error-marker=ERR\"",
		},
		&ucli.StringFlag{
			Name:  argNow,
			Usage: "the beginning of the omitted system time ranges, the current time by default",
		},
	}

	runFlags := []ucli.Flag{
		&ucli.StringFlag{
			Name:  argOutFile,
			Usage: "output file, stdout is used if not set",
		},
		&ucli.StringFlag{
			Name:  argErrMarker,
			Usage: "text which is written for the lines which could not be converted",
		},
	}
	runFlags = append(runFlags, cmnFlags...)

	app := &ucli.App{
		Name:    "geotime",
		Version: geotime.Version,
		Usage:   "Time ranges to geometry transcoder",
		Commands: []*ucli.Command{
			{
				Name:      cli.ProcGeo2T,
				Usage:     "Convert boxes to time ranges",
				UsageText: "geotime geo2t [command options] [files...]",
				Action:    runProc(cli.ProcGeo2T),
				Flags:     runFlags,
			},
			{
				Name:      cli.ProcT2Geo,
				Usage:     "Convert time ranges to boxes",
				UsageText: "geotime t2geo [command options] [files...]",
				Action:    runProc(cli.ProcT2Geo),
				Flags:     runFlags,
			},
			{
				Name:      cli.ProcNorm,
				Usage:     "Merge overlapping and adjacent time ranges",
				UsageText: "geotime norm [command options] [files...]",
				Action:    runProc(cli.ProcNorm),
				Flags:     runFlags,
			},
			{
				Name:      "shell",
				Usage:     "Run interactive shell",
				UsageText: "geotime shell [command options]",
				Action:    runShell,
				Flags:     cmnFlags,
			},
		},
	}

	sort.Sort(ucli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(ucli.FlagsByName(c.Flags))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initCfg(c *ucli.Context) (*cli.Config, error) {
	var (
		err error
		cfg = cli.NewDefaultConfig()
	)

	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		err = log4g.ConfigF(logCfgFile)
		if err != nil {
			return nil, err
		}
	}

	cfgFile := c.String(argCfgFile)
	if cfgFile != "" {
		logger.Info("Loading config from=", cfgFile)
		config, err := cli.LoadCfgFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(config)
	}

	err = applyArgsToCfg(c, cfg)
	return cfg, err
}

func applyArgsToCfg(c *ucli.Context, cfg *cli.Config) error {
	if opts := c.String(argOpts); opts != "" {
		if err := cfg.ApplyOptions(opts); err != nil {
			return err
		}
	}
	if now := c.String(argNow); now != "" {
		cfg.Now = now
	}
	if c.IsSet(argErrMarker) {
		cfg.ErrorMarker = c.String(argErrMarker)
	}
	if out := c.String(argOutFile); out != "" {
		cfg.OutputFile = out
	}
	if c.Args().Len() > 0 {
		cfg.Inputs = c.Args().Slice()
	}
	if err := cfg.Check(); err != nil {
		return err
	}
	logger.Debug("Running with config ", cfg)
	return nil
}

func newCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
		logger.Warn("Handling signal=", s)
		cancel()
	})
	return ctx
}

func runProc(name string) ucli.ActionFunc {
	return func(c *ucli.Context) error {
		cfg, err := initCfg(c)
		if err != nil {
			return err
		}
		return cli.Transcode(newCtx(), cfg, name)
	}
}

func runShell(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}
	return cli.Shell(cfg)
}
