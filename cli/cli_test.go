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
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/instant"
	"github.com/logrange/geotime/pkg/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.Check())
	assert.Equal(t, "2000-01-01T00:00:00.000", cfg.RefEpoch)

	m, err := cfg.Mapper(time.Date(2019, 10, 1, 10, 0, 0, 123456789, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, geo.RefEpoch, m.Ref)
	assert.Equal(t, instant.New(2019, 10, 1, 10, 0, 0, 0), m.Now)

	cfg.Now = "2019-10-02T11:30:15.750"
	m, err = cfg.Mapper(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, instant.New(2019, 10, 2, 11, 30, 15, 0), m.Now)

	cfg.Now = "2019-10-02"
	m, err = cfg.Mapper(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, instant.New(2019, 10, 2, 0, 0, 0, 0), m.Now)
}

func TestConfigApply(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Apply(nil)
	cfg.Apply(&Config{ErrorMarker: "ERR", Inputs: []string{"a.wkt"}})
	assert.Equal(t, "ERR", cfg.ErrorMarker)
	assert.Equal(t, []string{"a.wkt"}, cfg.Inputs)
	assert.Equal(t, "2000-01-01T00:00:00.000", cfg.RefEpoch)
}

func TestApplyOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.ApplyOptions("error-marker=ERR ref-epoch=2001-01-01 now=2019-10-01T10:00 buf-size=1024"))
	assert.Equal(t, "ERR", cfg.ErrorMarker)
	assert.Equal(t, "2001-01-01", cfg.RefEpoch)
	assert.Equal(t, 1024, cfg.BufSize)

	m, err := cfg.Mapper(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, instant.New(2001, 1, 1, 0, 0, 0, 0), m.Ref)
	assert.Equal(t, instant.New(2019, 10, 1, 10, 0, 0, 0), m.Now)

	assert.NoError(t, cfg.ApplyOptions(`error-marker=""`))
	assert.Equal(t, "", cfg.ErrorMarker)

	// cfg stays unchanged on errors
	assert.Error(t, cfg.ApplyOptions("unknown=1"))
	assert.Error(t, cfg.ApplyOptions("ref-epoch=2001-13-01"))
	assert.Error(t, cfg.ApplyOptions("buf-size=abc"))
	assert.Error(t, cfg.ApplyOptions("buf-size=-1"))
	assert.Equal(t, "2001-01-01", cfg.RefEpoch)
	assert.Equal(t, 1024, cfg.BufSize)
}

func TestLoadCfgFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "loadCfgTest")
	if err != nil {
		t.Fatal("Could not create new dir err=", err)
	}
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "geotime.json")
	assert.NoError(t, ioutil.WriteFile(fn, []byte(`{"ErrorMarker": "ERR", "BufSize": 100, "Inputs": ["a", "b"]}`), 0640))
	cfg, err := LoadCfgFromFile(fn)
	assert.NoError(t, err)
	assert.Equal(t, &Config{ErrorMarker: "ERR", BufSize: 100, Inputs: []string{"a", "b"}}, cfg)

	_, err = LoadCfgFromFile(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	assert.NoError(t, ioutil.WriteFile(fn, []byte(`{"ErrorMarker": `), 0640))
	_, err = LoadCfgFromFile(fn)
	assert.Error(t, err)
}

func TestShellCommands(t *testing.T) {
	var out bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Now = "2000-01-11T00:00:00.000"
	sc, err := newShellCfg(cfg, &out, time.Now())
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, execCmd(ctx, "geo2t BOX(0 0, 0.78125 1.5625)", sc))
	assert.Equal(t, "2000-01-01--2000-04-09, 2000-01-01T00:00:00.000--2000-07-19T00:00:00.000\n", out.String())

	out.Reset()
	assert.NoError(t, execCmd(ctx, "T2GEO 2000-01-01", sc))
	assert.Equal(t, "BOX(0.00000000000000000 0.07812500000000000, 0.00781250000000000 90.00000000000000000)\n", out.String())

	out.Reset()
	assert.NoError(t, execCmd(ctx, "norm 2000-01-01 2000-01-02", sc))
	assert.Equal(t, "2000-01-01--2000-01-02\n", out.String())

	assert.Error(t, execCmd(ctx, "geo2t BOX(0 0)", sc))
	assert.Error(t, execCmd(ctx, "select 1", sc))

	out.Reset()
	assert.NoError(t, execCmd(ctx, "setopt now=2000-01-21", sc))
	out.Reset()
	assert.NoError(t, execCmd(ctx, "t2geo 2000-01-01", sc))
	assert.Equal(t, "BOX(0.00000000000000000 0.15625000000000000, 0.00781250000000000 90.00000000000000000)\n", out.String())
	assert.Error(t, execCmd(ctx, "setopt now=yesterday", sc))
	assert.Equal(t, "2000-01-21", sc.cfg.Now)

	out.Reset()
	assert.NoError(t, execCmd(ctx, "setopt", sc))
	assert.Contains(t, out.String(), "Now=\"2000-01-21\"")

	out.Reset()
	assert.NoError(t, execCmd(ctx, "help", sc))
	assert.Contains(t, out.String(), ProcGeo2T)

	assert.False(t, sc.quit)
	assert.NoError(t, execCmd(ctx, "exit", sc))
	assert.True(t, sc.quit)
}

func TestShellFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "shellFilesTest")
	if err != nil {
		t.Fatal("Could not create new dir err=", err)
	}
	defer os.RemoveAll(dir)
	assert.NoError(t, ioutil.WriteFile(filepath.Join(dir, "1.txt"),
		[]byte("2000-01-01--2000-01-03 2000-01-04\nbad\n"), 0640))

	var out bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.ErrorMarker = "ERR"
	sc, err := newShellCfg(cfg, &out, time.Now())
	assert.NoError(t, err)

	assert.NoError(t, execCmd(context.Background(), "norm < "+filepath.Join(dir, "*.txt"), sc))
	assert.Equal(t, "2000-01-01--2000-01-04\nERR\ndone {lines=2, failed=1, read=36}\n", out.String())

	err = execCmd(context.Background(), "norm < "+filepath.Join(dir, "*.none"), sc)
	assert.Equal(t, util.ErrNoInputs, errors.Cause(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out.Reset()
	err = execCmd(ctx, "norm < "+filepath.Join(dir, "1.txt"), sc)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, "", out.String())
}

func TestTranscode(t *testing.T) {
	dir, err := ioutil.TempDir("", "transcodeTest")
	if err != nil {
		t.Fatal("Could not create new dir err=", err)
	}
	defer os.RemoveAll(dir)

	assert.NoError(t, ioutil.WriteFile(filepath.Join(dir, "1.txt"),
		[]byte("a\t2000-01-01--2000-01-03 2000-01-03--2000-01-05\nbad\n"), 0640))
	assert.NoError(t, ioutil.WriteFile(filepath.Join(dir, "2.txt"),
		[]byte("2000-01-01 2000-01-10"), 0640))

	cfg := NewDefaultConfig()
	cfg.ErrorMarker = "ERR"
	cfg.Inputs = []string{filepath.Join(dir, "1.txt"), filepath.Join(dir, "2.txt")}
	cfg.OutputFile = filepath.Join(dir, "out.txt")
	assert.NoError(t, Transcode(context.Background(), cfg, ProcNorm))

	res, err := ioutil.ReadFile(cfg.OutputFile)
	assert.NoError(t, err)
	assert.Equal(t, "a\t2000-01-01--2000-01-05\nERR\n2000-01-01 2000-01-10\n", string(res))
	_, err = os.Stat(cfg.OutputFile + ".lock")
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, Transcode(context.Background(), cfg, "unknown"))

	cfg.Inputs = []string{filepath.Join(dir, "*.none")}
	err = Transcode(context.Background(), cfg, ProcNorm)
	assert.Equal(t, util.ErrNoInputs, errors.Cause(err))
}
