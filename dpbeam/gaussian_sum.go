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

package dpbeam

import (
	"fmt"
	"reflect"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/core/typex"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	log "github.com/golang/glog"
	"github.com/google/differential-privacy/dpsum/checks"
	"github.com/google/differential-privacy/dpsum/dpquery"
	"github.com/google/differential-privacy/dpsum/noise"
	"github.com/google/differential-privacy/dpsum/structure"
)

func init() {
	register.Combiner3[gaussianSumAccum, []float64, []float64](&gaussianSumFn{})
}

// GaussianSumParams specifies the parameters of a GaussianSum aggregation.
type GaussianSumParams struct {
	// Length of every record. Records of any other length fail the pipeline.
	//
	// Required.
	Dimension int
	// Every record is clipped to an L2 norm of at most L2NormClip before it is
	// added to the sum. 0 clips every record to zero.
	L2NormClip float64
	// Standard deviation of the Gaussian noise added to each coordinate of the
	// sum. 0 releases the exact sum of the clipped records.
	NoiseStddev float64
	// Seed of a reproducible noise generator, for tests only; leave 0 to use
	// the secure generator. Every worker seeds its own generator with the same
	// value, so different bundles or keys may receive identical noise.
	//
	// Optional.
	Seed uint64
}

func checkGaussianSumParams(params GaussianSumParams) error {
	if params.Dimension <= 0 {
		return fmt.Errorf("Dimension is %d, must be strictly positive", params.Dimension)
	}
	if err := checks.CheckL2NormClip("GaussianSumParams", params.L2NormClip); err != nil {
		return err
	}
	return checks.CheckNoiseStddev("GaussianSumParams", params.NoiseStddev)
}

// GaussianSum sums a PCollection<[]float64> of records into a single noised
// []float64 of length params.Dimension.
func GaussianSum(s beam.Scope, col beam.PCollection, params GaussianSumParams) beam.PCollection {
	s = s.Scope("dpbeam.GaussianSum")
	if t := col.Type().Type(); t != reflect.TypeOf([]float64{}) {
		log.Fatalf("GaussianSum: input must be a PCollection<[]float64>, got PCollection<%v>", t)
	}
	fn, err := newGaussianSumFn(params)
	if err != nil {
		log.Fatalf("Couldn't get gaussianSumFn for GaussianSum: %v", err)
	}
	return beam.Combine(s, fn, col)
}

// GaussianSumPerKey is GaussianSum applied to each key of a
// PCollection<K,[]float64> separately. Each key is released with the full
// noise of params.
//
// Keys themselves are released as they appear in the input.
func GaussianSumPerKey(s beam.Scope, col beam.PCollection, params GaussianSumParams) beam.PCollection {
	s = s.Scope("dpbeam.GaussianSumPerKey")
	if t := col.Type(); !typex.IsKV(t) || t.Components()[1].Type() != reflect.TypeOf([]float64{}) {
		log.Fatalf("GaussianSumPerKey: input must be a PCollection<K,[]float64>, got PCollection<%v>", t)
	}
	fn, err := newGaussianSumFn(params)
	if err != nil {
		log.Fatalf("Couldn't get gaussianSumFn for GaussianSumPerKey: %v", err)
	}
	return beam.CombinePerKey(s, fn, col)
}

type gaussianSumAccum struct {
	Sum   []float64
	Count int64
}

// gaussianSumFn is a differentially private combineFn for summing vectors. Do
// not initialize it yourself, use newGaussianSumFn to create a gaussianSumFn
// instance.
type gaussianSumFn struct {
	Dimension   int
	L2NormClip  float64
	NoiseStddev float64
	Seed        uint64

	// Set during Setup phase.
	query  *dpquery.GaussianSumQuery
	params dpquery.SampleParams
}

func newGaussianSumFn(params GaussianSumParams) (*gaussianSumFn, error) {
	if err := checkGaussianSumParams(params); err != nil {
		return nil, err
	}
	return &gaussianSumFn{
		Dimension:   params.Dimension,
		L2NormClip:  params.L2NormClip,
		NoiseStddev: params.NoiseStddev,
		Seed:        params.Seed,
	}, nil
}

func (fn *gaussianSumFn) Setup() error {
	gen := noise.Secure()
	if fn.Seed != 0 {
		gen = noise.Seeded(fn.Seed)
	}
	q, err := dpquery.NewGaussianSumQuery(&dpquery.GaussianSumQueryOptions{
		L2NormClip:  fn.L2NormClip,
		NoiseStddev: fn.NoiseStddev,
		Generator:   gen,
	})
	if err != nil {
		return err
	}
	fn.query = q
	fn.params = q.DeriveSampleParams(q.InitialGlobalState())
	return nil
}

func (fn *gaussianSumFn) CreateAccumulator() gaussianSumAccum {
	return gaussianSumAccum{Sum: make([]float64, fn.Dimension)}
}

func (fn *gaussianSumFn) AddInput(a gaussianSumAccum, record []float64) (gaussianSumAccum, error) {
	sum, err := fn.query.AccumulateRecord(fn.params, structure.NewVector(a.Sum...), structure.NewVector(record...))
	if err != nil {
		return a, fmt.Errorf("dpbeam.gaussianSumFn.AddInput: %w", err)
	}
	return gaussianSumAccum{Sum: sum.Vector(), Count: a.Count + 1}, nil
}

func (fn *gaussianSumFn) MergeAccumulators(a, b gaussianSumAccum) (gaussianSumAccum, error) {
	sum, err := fn.query.MergeSampleStates(structure.NewVector(a.Sum...), structure.NewVector(b.Sum...))
	if err != nil {
		return a, fmt.Errorf("dpbeam.gaussianSumFn.MergeAccumulators: %w", err)
	}
	return gaussianSumAccum{Sum: sum.Vector(), Count: a.Count + b.Count}, nil
}

func (fn *gaussianSumFn) ExtractOutput(a gaussianSumAccum) ([]float64, error) {
	result, _, err := fn.query.GetNoisedResult(structure.NewVector(a.Sum...), fn.query.InitialGlobalState())
	if err != nil {
		return nil, fmt.Errorf("dpbeam.gaussianSumFn.ExtractOutput: %w", err)
	}
	return result.Vector(), nil
}

func (fn *gaussianSumFn) String() string {
	return fmt.Sprintf("%#v", fn)
}
