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

package dpquery

import (
	"math"
	"testing"

	"github.com/google/differential-privacy/dpsum/structure"
)

func TestConstantScheduleKeepsState(t *testing.T) {
	clip, _ := NewClipThreshold(3)
	gs := GlobalState{L2NormClip: clip, NoiseStddev: 2}
	got, err := Constant{}.Next(gs)
	if err != nil {
		t.Fatalf("Constant.Next: got err %v", err)
	}
	if got != gs {
		t.Errorf("Constant.Next(%+v): got %+v, want it unchanged", gs, got)
	}
}

func TestGeometricDecay(t *testing.T) {
	for _, tc := range []struct {
		desc                 string
		decay                GeometricDecay
		clip, stddev         float64
		wantClip, wantStddev float64
	}{
		{"halving", GeometricDecay{Factor: 0.5}, 4, 2, 2, 1},
		{"growing", GeometricDecay{Factor: 2}, 1, 3, 2, 6},
		{"floored by Min", GeometricDecay{Factor: 0.1, Min: 1}, 4, 8, 1, 2},
		{"zero clip", GeometricDecay{Factor: 0.5, Min: 1}, 0, 8, 1, 8},
	} {
		clip, err := NewClipThreshold(tc.clip)
		if err != nil {
			t.Fatalf("NewClipThreshold(%f): got err %v", tc.clip, err)
		}
		got, err := tc.decay.Next(GlobalState{L2NormClip: clip, NoiseStddev: tc.stddev})
		if err != nil {
			t.Fatalf("GeometricDecay.Next: when %s got err %v", tc.desc, err)
		}
		if c := got.L2NormClip.Load(); math.Abs(c-tc.wantClip) > 1e-12 {
			t.Errorf("GeometricDecay.Next: when %s got clip %f, want %f", tc.desc, c, tc.wantClip)
		}
		if math.Abs(got.NoiseStddev-tc.wantStddev) > 1e-12 {
			t.Errorf("GeometricDecay.Next: when %s got stddev %f, want %f", tc.desc, got.NoiseStddev, tc.wantStddev)
		}
		if clip.Load() != tc.clip {
			t.Errorf("GeometricDecay.Next: when %s the previous threshold changed to %f, want %f", tc.desc, clip.Load(), tc.clip)
		}
	}
}

func TestGeometricDecayInvalid(t *testing.T) {
	clip, _ := NewClipThreshold(1)
	gs := GlobalState{L2NormClip: clip, NoiseStddev: 1}
	for _, d := range []GeometricDecay{
		{Factor: 0},
		{Factor: -1},
		{Factor: math.NaN()},
		{Factor: 0.5, Min: -1},
	} {
		if _, err := d.Next(gs); err == nil {
			t.Errorf("%+v.Next: got no error", d)
		}
	}
}

func TestGetNoisedResultAdvancesSchedule(t *testing.T) {
	q := newQuery(t, &GaussianSumQueryOptions{
		L2NormClip: 8,
		Generator:  panickingGenerator{},
		Schedule:   GeometricDecay{Factor: 0.5},
	})
	gs := q.InitialGlobalState()
	records := []structure.Structure{vec(0, 10)}
	for _, want := range []float64{8, 4, 2} {
		got, next, err := RunQueryWithState(q, records, gs)
		if err != nil {
			t.Fatalf("RunQueryWithState: got err %v", err)
		}
		if wantSum := vec(0, want); !approxEqual(got, wantSum) {
			t.Errorf("RunQueryWithState with clip %f: got %v, want %v", gs.L2NormClip.Load(), got, wantSum)
		}
		gs = next
	}
	if c := q.InitialGlobalState().L2NormClip.Load(); c != 8 {
		t.Errorf("InitialGlobalState after three rounds: got clip %f, want 8", c)
	}
}
