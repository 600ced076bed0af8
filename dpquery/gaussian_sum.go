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

	log "github.com/golang/glog"
	"github.com/google/differential-privacy/dpsum/checks"
	"github.com/google/differential-privacy/dpsum/noise"
	"github.com/google/differential-privacy/dpsum/structure"
	"gonum.org/v1/gonum/floats"
)

// ClipMode selects how a record is clipped before it is accumulated.
type ClipMode int

const (
	// PerLeaf clips every scalar and every vector of a record independently
	// against the same threshold.
	PerLeaf ClipMode = iota
	// GlobalNorm clips a record by the L2 norm of all of its values taken
	// together, which bounds the L2 sensitivity of the sum by the threshold
	// regardless of how many leaves a record has.
	GlobalNorm
)

func (m ClipMode) String() string {
	switch m {
	case PerLeaf:
		return "PerLeaf"
	case GlobalNorm:
		return "GlobalNorm"
	}
	return fmt.Sprintf("ClipMode(%d)", int(m))
}

// GaussianSumQuery sums records clipped to a bounded L2 norm and releases the
// sum with Gaussian noise added to every value.
//
// For general details and key definitions, see
// https://github.com/google/differential-privacy/blob/main/differential_privacy.md#key-definitions.
//
// The query itself holds no per-sample state and is safe for concurrent use.
type GaussianSumQuery struct {
	l2NormClip  *ClipThreshold
	noiseStddev float64
	clipMode    ClipMode
	generator   noise.Generator
	schedule    Schedule
}

// GaussianSumQueryOptions contains the options necessary to initialize a GaussianSumQuery.
type GaussianSumQueryOptions struct {
	// Fixed L2 norm clip. Ignored when ClipThreshold is set; must then be 0.
	L2NormClip float64
	// Live clip threshold shared with the caller, who may update it between
	// samples. Takes precedence over L2NormClip.
	ClipThreshold *ClipThreshold
	// Standard deviation of the Gaussian noise added to every released value.
	// 0 releases the exact sum.
	NoiseStddev float64
	// Defaults to PerLeaf.
	ClipMode ClipMode
	// Source of the noise. Defaults to noise.Secure().
	Generator noise.Generator
	// Derives the global state of the next round. Defaults to Constant{}.
	Schedule Schedule
}

// NewGaussianSumQuery returns a new GaussianSumQuery.
func NewGaussianSumQuery(opt *GaussianSumQueryOptions) (*GaussianSumQuery, error) {
	if opt == nil {
		opt = &GaussianSumQueryOptions{} // Prevents panicking due to a nil pointer dereference.
	}

	clip := opt.ClipThreshold
	if clip == nil {
		var err error
		if clip, err = NewClipThreshold(opt.L2NormClip); err != nil {
			return nil, fmt.Errorf("NewGaussianSumQuery: %w", err)
		}
	} else if opt.L2NormClip != 0 {
		return nil, fmt.Errorf("NewGaussianSumQuery: L2NormClip (%f) and ClipThreshold (%v) cannot both be set", opt.L2NormClip, clip)
	}
	if clip.Load() == 0 {
		log.Warningf("NewGaussianSumQuery: L2NormClip is 0, all records will be clipped to zero")
	}
	if err := checks.CheckNoiseStddev("NewGaussianSumQuery", opt.NoiseStddev); err != nil {
		return nil, err
	}
	if opt.ClipMode != PerLeaf && opt.ClipMode != GlobalNorm {
		return nil, fmt.Errorf("NewGaussianSumQuery: unknown ClipMode %v", opt.ClipMode)
	}

	gen := opt.Generator
	if gen == nil {
		gen = noise.Secure()
	}
	sched := opt.Schedule
	if sched == nil {
		sched = Constant{}
	}
	// Check that the schedule accepts the initial state by deriving a
	// placeholder next state.
	if _, err := sched.Next(GlobalState{L2NormClip: clip, NoiseStddev: opt.NoiseStddev}); err != nil {
		return nil, fmt.Errorf("NewGaussianSumQuery: %w", err)
	}

	return &GaussianSumQuery{
		l2NormClip:  clip,
		noiseStddev: opt.NoiseStddev,
		clipMode:    opt.ClipMode,
		generator:   gen,
		schedule:    sched,
	}, nil
}

// StddevForBudget returns the noise standard deviation that makes a single
// release of a GaussianSumQuery with clip l2NormClip (ε,δ)-differentially
// private with respect to adding or removing one record. It holds for both
// clip modes only if every record has a single leaf, or GlobalNorm is used.
func StddevForBudget(l2NormClip, epsilon, delta float64) (float64, error) {
	sigma, err := noise.SigmaForGaussian(l2NormClip, epsilon, delta)
	if err != nil {
		return 0, fmt.Errorf("StddevForBudget: %w", err)
	}
	return sigma, nil
}

// InitialGlobalState returns the global state holding the query's clip
// threshold handle and noise standard deviation.
func (q *GaussianSumQuery) InitialGlobalState() GlobalState {
	return GlobalState{L2NormClip: q.l2NormClip, NoiseStddev: q.noiseStddev}
}

// DeriveSampleParams reads the current value of the clip threshold.
func (q *GaussianSumQuery) DeriveSampleParams(gs GlobalState) SampleParams {
	return SampleParams{L2NormClip: gs.L2NormClip.Load(), NoiseStddev: gs.NoiseStddev}
}

// InitialSampleState returns zeros shaped like template.
func (q *GaussianSumQuery) InitialSampleState(template structure.Structure) (structure.Structure, error) {
	s, err := structure.ZerosLike(template)
	if err != nil {
		return structure.Structure{}, fmt.Errorf("InitialSampleState: %w", err)
	}
	return s, nil
}

// AccumulateRecord clips record with params.L2NormClip and adds it to state.
func (q *GaussianSumQuery) AccumulateRecord(params SampleParams, state, record structure.Structure) (structure.Structure, error) {
	if err := checks.CheckL2NormClip("AccumulateRecord", params.L2NormClip); err != nil {
		return state, err
	}
	if err := structure.CheckCompatible(state, record); err != nil {
		return state, fmt.Errorf("AccumulateRecord: %w", err)
	}
	if record.HasNonFinite() {
		log.Warningf("AccumulateRecord: record contains NaN or infinite values, the released result will not be private")
	}
	sum, err := structure.Add(state, q.clip(record, params.L2NormClip))
	if err != nil {
		return state, fmt.Errorf("AccumulateRecord: %w", err)
	}
	return sum, nil
}

func (q *GaussianSumQuery) clip(record structure.Structure, c float64) structure.Structure {
	if q.clipMode == GlobalNorm {
		return structure.ClipByGlobalNorm(record, c)
	}
	return structure.ClipPerLeaf(record, c)
}

// MergeSampleStates returns the element-wise sum of a and b.
func (q *GaussianSumQuery) MergeSampleStates(a, b structure.Structure) (structure.Structure, error) {
	sum, err := structure.Add(a, b)
	if err != nil {
		return structure.Structure{}, fmt.Errorf("MergeSampleStates: %w", err)
	}
	return sum, nil
}

// GetNoisedResult adds independent Gaussian noise with standard deviation
// gs.NoiseStddev to every value of state. With a standard deviation of 0 the
// state is returned as is and the generator is not called.
func (q *GaussianSumQuery) GetNoisedResult(state structure.Structure, gs GlobalState) (structure.Structure, GlobalState, error) {
	if !state.IsValid() {
		return structure.Structure{}, gs, fmt.Errorf("GetNoisedResult: %w", structure.ErrInvalid)
	}
	if err := checks.CheckNoiseStddev("GetNoisedResult", gs.NoiseStddev); err != nil {
		return structure.Structure{}, gs, err
	}
	result := state
	if gs.NoiseStddev > 0 {
		values := state.Flatten()
		draws := make([]float64, len(values))
		q.generator.StandardNormal(draws)
		floats.AddScaled(values, gs.NoiseStddev, draws)
		var err error
		if result, err = structure.Unflatten(state, values); err != nil {
			return structure.Structure{}, gs, fmt.Errorf("GetNoisedResult: %w", err)
		}
	}
	next, err := q.schedule.Next(gs)
	if err != nil {
		return structure.Structure{}, gs, fmt.Errorf("GetNoisedResult: %w", err)
	}
	return result, next, nil
}
