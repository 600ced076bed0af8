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

// Package dpbeam computes differentially private sums of vectors on Apache
// Beam pipelines.
//
// Records are []float64 of a fixed dimension. Each record is clipped to an L2
// norm bound, the clipped records are summed by a combiner whose accumulators
// can be merged in any order across workers, and Gaussian noise is added once
// to the final sum:
//
//	sums := dpbeam.GaussianSum(s, records, dpbeam.GaussianSumParams{
//		Dimension:   2,
//		L2NormClip:  5,
//		NoiseStddev: 1,
//	})
//
// The noise is calibrated by the caller. dpquery.StddevForBudget returns the
// standard deviation for a given (ε,δ) budget.
package dpbeam
