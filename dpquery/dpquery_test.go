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
	"testing"

	"github.com/google/differential-privacy/dpsum/structure"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// This file contains structs, functions, and values used to test queries.

var tolerance = cmpopts.EquateApprox(0, 1e-10)

// constantGenerator returns the same draw for every value.
type constantGenerator struct {
	draw  float64
	calls int
}

func (g *constantGenerator) StandardNormal(dst []float64) {
	g.calls++
	for i := range dst {
		dst[i] = g.draw
	}
}

// panickingGenerator fails the test if any randomness is requested.
type panickingGenerator struct{}

func (panickingGenerator) StandardNormal([]float64) {
	panic("StandardNormal called on a noiseless query")
}

func vec(v ...float64) structure.Structure {
	return structure.NewVector(v...)
}

func newQuery(t *testing.T, opt *GaussianSumQueryOptions) *GaussianSumQuery {
	t.Helper()
	q, err := NewGaussianSumQuery(opt)
	if err != nil {
		t.Fatalf("NewGaussianSumQuery(%+v): got err %v", opt, err)
	}
	return q
}

func noiselessQuery(t *testing.T, clip float64) *GaussianSumQuery {
	t.Helper()
	return newQuery(t, &GaussianSumQueryOptions{L2NormClip: clip, Generator: panickingGenerator{}})
}

func accumulateAll(t *testing.T, q Query, params SampleParams, records []structure.Structure) structure.Structure {
	t.Helper()
	state, err := q.InitialSampleState(records[0])
	if err != nil {
		t.Fatalf("InitialSampleState(%v): got err %v", records[0], err)
	}
	for _, r := range records {
		if state, err = q.AccumulateRecord(params, state, r); err != nil {
			t.Fatalf("AccumulateRecord(%v): got err %v", r, err)
		}
	}
	return state
}

func approxEqual(a, b structure.Structure) bool {
	return structure.CheckCompatible(a, b) == nil && cmp.Equal(a.Flatten(), b.Flatten(), tolerance)
}
