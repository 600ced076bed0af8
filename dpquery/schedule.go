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
	"fmt"
	"math"

	"github.com/google/differential-privacy/dpsum/checks"
)

// Schedule derives the global state of the next round from the state of the
// round whose result was just released. Schedules must not mutate the
// ClipThreshold of the state they are given; they return a new one instead.
//
// Global states are per query, not per shard: merging sample states never
// involves the schedule.
type Schedule interface {
	Next(gs GlobalState) (GlobalState, error)
}

// Constant keeps the global state unchanged across rounds.
type Constant struct{}

// Next returns gs.
func (Constant) Next(gs GlobalState) (GlobalState, error) {
	return gs, nil
}

// GeometricDecay multiplies the clip threshold by Factor after every round,
// never going below Min. The noise standard deviation is scaled by the same
// ratio, which keeps the ratio of noise to sensitivity, and with it the
// privacy guarantee of each round, unchanged.
type GeometricDecay struct {
	Factor float64
	Min    float64
}

// Next returns a state with a fresh ClipThreshold holding max(Min, clip*Factor).
func (d GeometricDecay) Next(gs GlobalState) (GlobalState, error) {
	if err := checks.CheckDecayFactor("GeometricDecay", d.Factor); err != nil {
		return gs, err
	}
	if err := checks.CheckL2NormClip("GeometricDecay (Min)", d.Min); err != nil {
		return gs, err
	}
	c := gs.L2NormClip.Load()
	next := math.Max(d.Min, c*d.Factor)
	handle, err := NewClipThreshold(next)
	if err != nil {
		return gs, fmt.Errorf("GeometricDecay: %w", err)
	}
	stddev := gs.NoiseStddev
	if c > 0 {
		stddev *= next / c
	}
	return GlobalState{L2NormClip: handle, NoiseStddev: stddev}, nil
}
