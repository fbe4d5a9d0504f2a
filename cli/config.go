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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/jrivets/log4g"
	"github.com/kr/logfmt"
	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/instant"
	"github.com/logrange/geotime/pkg/transcode"
	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

type (
	// Config struct defines the transcoding settings
	Config struct {
		// RefEpoch is the reference instant, the box coordinates are
		// the number of days since it
		RefEpoch string `mapstructure:"ref-epoch"`

		// Now overrides the current time, which is the beginning of the
		// omitted system time ranges. Empty value means the wall clock
		// time taken once at start.
		Now string `mapstructure:"now"`

		// ErrorMarker is written instead of the result of a line which could
		// not be converted
		ErrorMarker string `mapstructure:"error-marker"`

		// OutputFile is the file the results are written to, stdout is used
		// if it is empty
		OutputFile string `mapstructure:"output-file"`

		// BufSize is the size of the read buffer
		BufSize int `mapstructure:"buf-size"`

		// Inputs contains the input files or patterns, stdin is read if it is
		// empty
		Inputs []string `mapstructure:"inputs"`
	}

	optMap map[string]interface{}
)

var configLog = log4g.GetLogger("geotime.config")

//===================== config =====================

func NewDefaultConfig() *Config {
	cfg := new(Config)
	cfg.RefEpoch = geo.RefEpoch.String()
	cfg.BufSize = transcode.DefaultBufSize
	return cfg
}

// Apply override c's properties by non-default values from other
func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.RefEpoch != "" {
		c.RefEpoch = other.RefEpoch
	}
	if other.Now != "" {
		c.Now = other.Now
	}
	if other.ErrorMarker != "" {
		c.ErrorMarker = other.ErrorMarker
	}
	if other.OutputFile != "" {
		c.OutputFile = other.OutputFile
	}
	if other.BufSize > 0 {
		c.BufSize = other.BufSize
	}
	if len(other.Inputs) > 0 {
		c.Inputs = deepcopy.Copy(other.Inputs).([]string)
	}
}

// ApplyOptions sets the fields from the logfmt string like
// `error-marker=ERR ref-epoch=2000-01-01`. c stays unchanged if opts could
// not be applied.
func (c *Config) ApplyOptions(opts string) error {
	om := optMap{}
	if err := logfmt.Unmarshal([]byte(opts), om); err != nil {
		return errors.Wrapf(err, "could not parse options %q", opts)
	}

	res := deepcopy.Copy(c).(*Config)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           res,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(om)); err != nil {
		return errors.Wrapf(err, "could not apply options %q", opts)
	}
	if err := res.Check(); err != nil {
		return err
	}

	*c = *res
	return nil
}

func (c *Config) Check() error {
	if _, err := c.refEpoch(); err != nil {
		return errors.Wrapf(err, "wrong ref-epoch")
	}
	if c.Now != "" {
		if _, err := instant.Parse(c.Now); err != nil {
			return errors.Wrapf(err, "wrong now")
		}
	}
	if c.BufSize < 0 {
		return errors.Errorf("buf-size must not be negative, but %d", c.BufSize)
	}
	return nil
}

// Mapper returns the geo.Mapper for the config. c.Now replaces now if it is
// set, both are taken with the second precision.
func (c *Config) Mapper(now time.Time) (*geo.Mapper, error) {
	ref, err := c.refEpoch()
	if err != nil {
		return nil, err
	}

	if c.Now != "" {
		n, err := instant.Parse(c.Now)
		if err != nil {
			return nil, err
		}
		now = n.Time()
	}
	m := geo.NewMapper(now)
	m.Ref = ref
	return m, nil
}

func (c *Config) refEpoch() (instant.Instant, error) {
	ref, err := instant.Parse(c.RefEpoch)
	if err != nil {
		return instant.Nul, err
	}
	return ref.Floor(), nil
}

func (c *Config) String() string {
	return fmt.Sprintf("{RefEpoch=%s, Now=%q, ErrorMarker=%q, OutputFile=%q, BufSize=%d, Inputs=%v}",
		c.RefEpoch, c.Now, c.ErrorMarker, c.OutputFile, c.BufSize, c.Inputs)
}

// LoadCfgFromFile reads the JSON config from the file path
func LoadCfgFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	cfg := &Config{}
	if err = json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal json data from config file %s", path)
	}
	configLog.Info("Configuration read from ", path)
	return cfg, nil
}

func (om optMap) HandleLogfmt(key, val []byte) error {
	om[string(key)] = string(val)
	return nil
}
