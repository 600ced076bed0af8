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

package checks

import (
	"math"
	"strings"
	"testing"
)

func TestCheckL2NormClip(t *testing.T) {
	for _, tc := range []struct {
		desc       string
		l2NormClip float64
		wantErr    bool
	}{
		{"negative clip",
			-1,
			true},
		{"zero clip",
			0,
			false},
		{"positive clip",
			5,
			false},
		{"clip is NaN",
			math.NaN(),
			true},
		{"clip is positive infinity",
			math.Inf(1),
			true},
		{"clip is negative infinity",
			math.Inf(-1),
			true},
	} {
		if err := CheckL2NormClip("test", tc.l2NormClip); (err != nil) != tc.wantErr {
			t.Errorf("CheckL2NormClip: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckNoiseStddev(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		stddev  float64
		wantErr bool
	}{
		{"negative stddev",
			-0.5,
			true},
		{"zero stddev",
			0,
			false},
		{"positive stddev",
			1,
			false},
		{"stddev is NaN",
			math.NaN(),
			true},
		{"stddev is infinity",
			math.Inf(1),
			true},
	} {
		if err := CheckNoiseStddev("test", tc.stddev); (err != nil) != tc.wantErr {
			t.Errorf("CheckNoiseStddev: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckEpsilon(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"negative epsilon",
			-2,
			true},
		{"zero epsilon",
			0,
			true},
		{"epsilon is NaN",
			math.NaN(),
			true},
		{"epsilon is positive infinity",
			math.Inf(1),
			true},
		{"positive epsilon",
			math.Log(3),
			false},
	} {
		if err := CheckEpsilon("test", tc.epsilon); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilon: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckDeltaStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		delta   float64
		wantErr bool
	}{
		{"negative delta",
			-1e-5,
			true},
		{"zero delta",
			0,
			true},
		{"delta is NaN",
			math.NaN(),
			true},
		{"delta is one",
			1,
			true},
		{"small delta",
			1e-10,
			false},
	} {
		if err := CheckDeltaStrict("test", tc.delta); (err != nil) != tc.wantErr {
			t.Errorf("CheckDeltaStrict: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckL2Sensitivity(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		l2Sensitivity float64
		wantErr       bool
	}{
		{"valid sensitivity", 1, false},
		{"small sensitivity", 1e-10, false},
		{"zero sensitivity", 0, true},
		{"negative sensitivity", -1, true},
		{"infinite sensitivity", math.Inf(1), true},
		{"NaN sensitivity", math.NaN(), true},
	} {
		err := CheckL2Sensitivity("test", tc.l2Sensitivity)
		if (err != nil) != tc.wantErr {
			t.Errorf("CheckL2Sensitivity: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
		if err != nil && !strings.Contains(err.Error(), "L2Sensitivity") {
			t.Errorf("CheckL2Sensitivity: when %s got err %q, want it to name L2Sensitivity", tc.desc, err)
		}
	}
}

func TestCheckDecayFactor(t *testing.T) {
	for _, tc := range []struct {
		factor  float64
		wantErr bool
	}{
		{0.5, false},
		{1, false},
		{2, false},
		{0, true},
		{-0.5, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	} {
		if err := CheckDecayFactor("test", tc.factor); (err != nil) != tc.wantErr {
			t.Errorf("CheckDecayFactor(%f): for err got %v, want %t", tc.factor, err, tc.wantErr)
		}
	}
}

func TestCheckShards(t *testing.T) {
	for _, tc := range []struct {
		shards  int
		wantErr bool
	}{
		{1, false},
		{16, false},
		{0, true},
		{-3, true},
	} {
		if err := CheckShards("test", tc.shards); (err != nil) != tc.wantErr {
			t.Errorf("CheckShards(%d): for err got %v, want %t", tc.shards, err, tc.wantErr)
		}
	}
}
