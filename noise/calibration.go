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

package noise

import (
	"fmt"
	"math"

	"github.com/google/differential-privacy/dpsum/checks"
	"gonum.org/v1/gonum/stat/distuv"
)

// sigmaAccuracy is the relative accuracy up to which SigmaForGaussian
// approximates the smallest admissible σ.
const sigmaAccuracy = 1e-3

// SigmaForGaussian returns the standard deviation σ of Gaussian noise that makes
// a single release of a sum with the given L2 sensitivity (ε,δ)-differentially
// private. For a sum of records clipped to an L2 norm of C, the L2 sensitivity is C.
//
// The result deviates from the tight value σ_tight by at most sigmaAccuracy*σ_tight
// and is never smaller than σ_tight.
func SigmaForGaussian(l2Sensitivity, epsilon, delta float64) (float64, error) {
	if err := checks.CheckL2Sensitivity("SigmaForGaussian", l2Sensitivity); err != nil {
		return 0, err
	}
	if err := checks.CheckEpsilon("SigmaForGaussian", epsilon); err != nil {
		return 0, err
	}
	if err := checks.CheckDeltaStrict("SigmaForGaussian", delta); err != nil {
		return 0, err
	}

	// δ(σ) decreases in σ and the required σ grows linearly with the
	// sensitivity, so start from the sensitivity and double until it bounds σ_tight.
	var lower float64
	upper := l2Sensitivity
	for deltaForGaussian(upper, l2Sensitivity, epsilon) > delta {
		lower = upper
		upper *= 2
	}
	for upper-lower > sigmaAccuracy*lower {
		middle := lower*0.5 + upper*0.5
		if deltaForGaussian(middle, l2Sensitivity, epsilon) > delta {
			lower = middle
		} else {
			upper = middle
		}
	}
	if math.IsNaN(upper) || math.IsInf(upper, 0) {
		return 0, fmt.Errorf("SigmaForGaussian: no finite σ for l2Sensitivity %f, epsilon %f, delta %e", l2Sensitivity, epsilon, delta)
	}
	return upper, nil
}

// deltaForGaussian computes the smallest δ such that the Gaussian mechanism
// with standard deviation σ is (ε,δ)-differentially private for data with the
// given L2 sensitivity s. Theorem 8 of Balle and Wang, "Improving the Gaussian
// Mechanism for Differential Privacy" (https://arxiv.org/abs/1805.06530v2):
//
//	δ(σ,s,ε) = Φ(s/(2σ) - εσ/s) - exp(ε)Φ(-s/(2σ) - εσ/s)
func deltaForGaussian(sigma, l2Sensitivity, epsilon float64) float64 {
	a := l2Sensitivity / (2 * sigma)
	b := epsilon * sigma / l2Sensitivity
	c := math.Exp(epsilon)
	if math.IsInf(c, +1) || math.IsInf(b, +1) {
		// δ goes to 0 as ε or σ/s go to ∞.
		return 0
	}
	return distuv.UnitNormal.CDF(a-b) - c*distuv.UnitNormal.CDF(-a-b)
}
