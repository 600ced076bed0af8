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

// Package noise contains the random generators used to perturb released
// aggregates, and the calibration of Gaussian noise to a privacy budget.
package noise

// Generator draws standard normal noise. Queries take a Generator at
// construction time instead of reaching for a process-wide source, so that
// tests can substitute a seeded or fixed one.
type Generator interface {
	// StandardNormal overwrites every element of dst with an independent
	// draw from the normal distribution with mean 0 and variance 1.
	StandardNormal(dst []float64)
}
