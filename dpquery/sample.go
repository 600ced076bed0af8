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

	"github.com/google/differential-privacy/dpsum/structure"
)

// Sample accumulates the records of one round of a Query and releases their
// noised aggregate once. Samples created for different shards from the same
// global state can be merged before the release.
//
// Not thread-safe.
type Sample struct {
	// Parameters
	query  Query
	global GlobalState
	params SampleParams

	// State variables
	sum   structure.Structure
	count int64
	state aggregationState
}

// NewSample returns an empty Sample of q shaped like template. The sample's
// params are derived from gs immediately, so later updates of the clip
// threshold do not affect it.
func NewSample(q Query, gs GlobalState, template structure.Structure) (*Sample, error) {
	if q == nil {
		return nil, fmt.Errorf("NewSample: nil query")
	}
	sum, err := q.InitialSampleState(template)
	if err != nil {
		return nil, fmt.Errorf("NewSample: %w", err)
	}
	return &Sample{
		query:  q,
		global: gs,
		params: q.DeriveSampleParams(gs),
		sum:    sum,
		state:  defaultState,
	}, nil
}

// Empty returns a new Sample with the query, global state and sample
// parameters of s and a zero sum. Samples obtained this way can always be
// merged with s, even if the clip threshold changed in between.
func (s *Sample) Empty() (*Sample, error) {
	sum, err := s.query.InitialSampleState(s.sum)
	if err != nil {
		return nil, fmt.Errorf("Sample.Empty: %w", err)
	}
	return &Sample{
		query:  s.query,
		global: s.global,
		params: s.params,
		sum:    sum,
		state:  defaultState,
	}, nil
}

// Params returns the params every record of the sample is clipped with.
func (s *Sample) Params() SampleParams {
	return s.params
}

// Count returns the number of records added to the sample, including those
// of merged samples.
func (s *Sample) Count() int64 {
	return s.count
}

// Add clips record and adds it to the sample. A record that does not match
// the sample's shape is rejected and the sample is left unchanged.
func (s *Sample) Add(record structure.Structure) error {
	if s.state != defaultState {
		return fmt.Errorf("Sample cannot be amended: %v", s.state.errorMessage())
	}
	sum, err := s.query.AccumulateRecord(s.params, s.sum, record)
	if err != nil {
		return err
	}
	s.sum = sum
	s.count++
	return nil
}

// Merge merges s2 into s (i.e., adds to s all records that were added to
// s2). s2 is consumed by this operation: s2 may not be used after it is
// merged into s.
func (s *Sample) Merge(s2 *Sample) error {
	if err := checkMergeSample(s, s2); err != nil {
		return err
	}
	sum, err := s.query.MergeSampleStates(s.sum, s2.sum)
	if err != nil {
		return err
	}
	s.sum = sum
	s.count += s2.count
	s2.state = merged
	return nil
}

func samplesEquallyInitialized(s1, s2 *Sample) bool {
	return s1.params == s2.params &&
		s1.global.L2NormClip == s2.global.L2NormClip &&
		s1.global.NoiseStddev == s2.global.NoiseStddev &&
		s1.state == s2.state
}

func checkMergeSample(s1, s2 *Sample) error {
	if s1 == s2 {
		return fmt.Errorf("checkMergeSample: a Sample cannot be merged with itself")
	}
	if s1.state != defaultState {
		return fmt.Errorf("checkMergeSample: s1 cannot be merged with another Sample: %v", s1.state.errorMessage())
	}
	if s2.state != defaultState {
		return fmt.Errorf("checkMergeSample: s2 cannot be merged with another Sample: %v", s2.state.errorMessage())
	}
	if !samplesEquallyInitialized(s1, s2) {
		return fmt.Errorf("checkMergeSample: s1 (params %+v) and s2 (params %+v) are not compatible", s1.params, s2.params)
	}
	return nil
}

// Result returns the noised aggregate of the sample and the global state of
// the next round. Once a result is returned, the sample cannot be used
// anymore. A failed release leaves the sample unchanged.
func (s *Sample) Result() (structure.Structure, GlobalState, error) {
	if s.state != defaultState {
		return structure.Structure{}, s.global, fmt.Errorf("Sample's noised result cannot be computed: %s", s.state.errorMessage())
	}
	result, next, err := s.query.GetNoisedResult(s.sum, s.global)
	if err != nil {
		return structure.Structure{}, s.global, err
	}
	s.state = resultReturned
	return result, next, nil
}
