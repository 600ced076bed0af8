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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
clip: 5
noise_stddev: 1.5
clip_mode: global_norm
shards: 8
seed: 42
skip_invalid: true
decay_factor: 0.9
min_clip: 0.5
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: got err %v", err)
	}
	want := Config{
		Clip:        5,
		NoiseStddev: 1.5,
		ClipMode:    "global_norm",
		Shards:      8,
		Seed:        42,
		SkipInvalid: true,
		Rounds:      1, // from DefaultConfig
		DecayFactor: 0.9,
		MinClip:     0.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig: diff (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate: got err %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadConfig of a missing file: got no error")
	}
	if _, err := LoadConfig(writeFile(t, "bad.yaml", "clip: [1, 2]\n")); err == nil {
		t.Errorf("LoadConfig of a malformed file: got no error")
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Clip = 1
	for _, tc := range []struct {
		desc    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default with clip", func(*Config) {}, false},
		{"zero clip", func(c *Config) { c.Clip = 0 }, false},
		{"budget", func(c *Config) { c.Epsilon, c.Delta = 1, 1e-5 }, false},
		{"decay", func(c *Config) { c.DecayFactor, c.MinClip = 0.5, 0.1 }, false},
		{"negative clip", func(c *Config) { c.Clip = -1 }, true},
		{"NaN stddev", func(c *Config) { c.NoiseStddev = math.NaN() }, true},
		{"stddev and budget", func(c *Config) { c.NoiseStddev, c.Epsilon, c.Delta = 1, 1, 1e-5 }, true},
		{"budget with zero clip", func(c *Config) { c.Clip, c.Epsilon, c.Delta = 0, 1, 1e-5 }, true},
		{"budget without delta", func(c *Config) { c.Epsilon = 1 }, true},
		{"unknown clip mode", func(c *Config) { c.ClipMode = "l1" }, true},
		{"zero shards", func(c *Config) { c.Shards = 0 }, true},
		{"zero rounds", func(c *Config) { c.Rounds = 0 }, true},
		{"negative decay", func(c *Config) { c.DecayFactor = -0.5 }, true},
		{"negative min clip", func(c *Config) { c.DecayFactor, c.MinClip = 0.5, -1 }, true},
	} {
		cfg := valid
		tc.modify(&cfg)
		if err := cfg.Validate(); (err != nil) != tc.wantErr {
			t.Errorf("Validate: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}
