//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package driver

import (
	"fmt"
	"os"

	"github.com/google/differential-privacy/dpsum/checks"
	"github.com/google/differential-privacy/dpsum/dpquery"
	"github.com/google/differential-privacy/dpsum/noise"
	"gopkg.in/yaml.v3"
)

// Config holds the parameters of a run. It can be read from a YAML file with
// LoadConfig:
//
//	clip: 5
//	noise_stddev: 1
//	shards: 8
//	skip_invalid: true
type Config struct {
	Clip        float64 `yaml:"clip"`
	NoiseStddev float64 `yaml:"noise_stddev"`
	// When Epsilon is set, NoiseStddev is derived from (Epsilon, Delta) and
	// must be left 0.
	Epsilon float64 `yaml:"epsilon"`
	Delta   float64 `yaml:"delta"`
	// "per_leaf" or "global_norm". Defaults to "per_leaf".
	ClipMode string `yaml:"clip_mode"`
	Shards   int    `yaml:"shards"`
	// Seed of a reproducible noise generator, for testing only. 0 selects the
	// secure generator.
	Seed uint64 `yaml:"seed"`
	// Skip and count records that do not match the shape of the first record
	// instead of failing the round.
	SkipInvalid bool `yaml:"skip_invalid"`
	Rounds      int  `yaml:"rounds"`
	// When DecayFactor is set, the clip of each round is the clip of the
	// previous round times DecayFactor, but never less than MinClip.
	DecayFactor float64 `yaml:"decay_factor"`
	MinClip     float64 `yaml:"min_clip"`
}

// DefaultConfig returns the configuration used for values a file or flags do
// not set.
func DefaultConfig() Config {
	return Config{
		ClipMode: "per_leaf",
		Shards:   4,
		Rounds:   1,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("couldn't read the config file = %q, err = %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("couldn't parse the config file = %q, err = %w", path, err)
	}
	return cfg, nil
}

// Validate returns an error if the configuration cannot be used for a run.
func (c Config) Validate() error {
	if err := checks.CheckL2NormClip("Config", c.Clip); err != nil {
		return err
	}
	if err := checks.CheckNoiseStddev("Config", c.NoiseStddev); err != nil {
		return err
	}
	if c.Epsilon != 0 {
		if c.NoiseStddev != 0 {
			return fmt.Errorf("Config: NoiseStddev (%f) and Epsilon (%f) cannot both be set", c.NoiseStddev, c.Epsilon)
		}
		if c.Clip == 0 {
			return fmt.Errorf("Config: Clip must be strictly positive when Epsilon is set")
		}
		if err := checks.CheckEpsilon("Config", c.Epsilon); err != nil {
			return err
		}
		if err := checks.CheckDeltaStrict("Config", c.Delta); err != nil {
			return err
		}
	}
	if _, err := c.clipMode(); err != nil {
		return err
	}
	if err := checks.CheckShards("Config", c.Shards); err != nil {
		return err
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("Config: Rounds is %d, must be strictly positive", c.Rounds)
	}
	if c.DecayFactor != 0 {
		if err := checks.CheckDecayFactor("Config", c.DecayFactor); err != nil {
			return err
		}
		if err := checks.CheckL2NormClip("Config (MinClip)", c.MinClip); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) clipMode() (dpquery.ClipMode, error) {
	switch c.ClipMode {
	case "", "per_leaf":
		return dpquery.PerLeaf, nil
	case "global_norm":
		return dpquery.GlobalNorm, nil
	}
	return dpquery.PerLeaf, fmt.Errorf("Config: unknown clip_mode %q, please use one of 'per_leaf', 'global_norm'", c.ClipMode)
}

// queryOptions builds the options of the query run by the driver. The clip
// threshold is shared with the caller through clip.
func (c Config) queryOptions(clip *dpquery.ClipThreshold) (*dpquery.GaussianSumQueryOptions, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := c.clipMode()
	stddev := c.NoiseStddev
	if c.Epsilon != 0 {
		var err error
		if stddev, err = dpquery.StddevForBudget(c.Clip, c.Epsilon, c.Delta); err != nil {
			return nil, err
		}
	}
	gen := noise.Secure()
	if c.Seed != 0 {
		gen = noise.Seeded(c.Seed)
	}
	var sched dpquery.Schedule = dpquery.Constant{}
	if c.DecayFactor != 0 {
		sched = dpquery.GeometricDecay{Factor: c.DecayFactor, Min: c.MinClip}
	}
	return &dpquery.GaussianSumQueryOptions{
		ClipThreshold: clip,
		NoiseStddev:   stddev,
		ClipMode:      mode,
		Generator:     gen,
		Schedule:      sched,
	}, nil
}
