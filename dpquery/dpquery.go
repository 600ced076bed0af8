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

// Package dpquery contains differentially private queries over samples of
// numeric records.
//
// A query is driven in rounds. Each round derives SampleParams from the
// current GlobalState, folds the sampled records into a SampleState with
// AccumulateRecord (possibly on several shards whose states are then combined
// with MergeSampleStates), and releases a noised result with GetNoisedResult,
// which also returns the GlobalState for the next round.
//
// Queries are stateless apart from their configuration: sample states and
// global states are values owned by the caller. A sample state must only be
// written by one goroutine at a time; independent shards should each use
// their own.
package dpquery

import (
	"github.com/google/differential-privacy/dpsum/structure"
)

// Query is the contract between a differentially private aggregation and the
// driver that feeds it records.
type Query interface {
	// InitialGlobalState returns the state of the first round.
	InitialGlobalState() GlobalState
	// DeriveSampleParams snapshots the parameters that govern one sample.
	DeriveSampleParams(gs GlobalState) SampleParams
	// InitialSampleState returns an empty accumulator shaped like template.
	// The template itself is not accumulated.
	InitialSampleState(template structure.Structure) (structure.Structure, error)
	// AccumulateRecord returns state with record folded in. On error state is
	// left as it was.
	AccumulateRecord(params SampleParams, state, record structure.Structure) (structure.Structure, error)
	// MergeSampleStates combines two accumulators computed over disjoint
	// parts of the same sample.
	MergeSampleStates(a, b structure.Structure) (structure.Structure, error)
	// GetNoisedResult releases the privatized aggregate of state and returns
	// the global state to use for the next round.
	GetNoisedResult(state structure.Structure, gs GlobalState) (structure.Structure, GlobalState, error)
}

// GlobalState is the configuration shared by all samples of a query. The
// clip threshold is a handle, so updates made to it between rounds are seen
// by the samples derived afterwards.
type GlobalState struct {
	L2NormClip  *ClipThreshold
	NoiseStddev float64
}

// SampleParams is the configuration of a single sample. It holds the value of
// the clip threshold at the time it was derived.
type SampleParams struct {
	L2NormClip  float64
	NoiseStddev float64
}
