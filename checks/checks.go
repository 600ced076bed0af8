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

// Package checks contains checks for the parameters of differentially private queries.
package checks

import (
	"fmt"
	"math"
)

// CheckL2NormClip returns an error if the L2 norm clip is negative, NaN or ±∞.
// A clip of 0 is allowed: every record is then clipped to zero.
func CheckL2NormClip(label string, l2NormClip float64) error {
	if math.IsNaN(l2NormClip) || math.IsInf(l2NormClip, 0) || l2NormClip < 0 {
		return fmt.Errorf("%s: L2NormClip is %f, must be nonnegative and finite", label, l2NormClip)
	}
	return nil
}

// CheckNoiseStddev returns an error if the standard deviation of the noise is
// negative, NaN or ±∞.
func CheckNoiseStddev(label string, stddev float64) error {
	if math.IsNaN(stddev) || math.IsInf(stddev, 0) || stddev < 0 {
		return fmt.Errorf("%s: NoiseStddev is %f, must be nonnegative and finite", label, stddev)
	}
	return nil
}

// CheckEpsilon returns an error if ε is nonpositive, NaN or +∞.
func CheckEpsilon(label string, epsilon float64) error {
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%s: Epsilon is %f, must be strictly positive and finite", label, epsilon)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or equal to 1.
func CheckDeltaStrict(label string, delta float64) error {
	if math.IsNaN(delta) {
		return fmt.Errorf("%s: Delta is %e, cannot be NaN", label, delta)
	}
	if delta <= 0 {
		return fmt.Errorf("%s: Delta is %e, must be strictly positive", label, delta)
	}
	if delta >= 1 {
		return fmt.Errorf("%s: Delta is %e, must be strictly less than 1", label, delta)
	}
	return nil
}

// CheckL2Sensitivity returns an error if l2Sensitivity is nonpositive, NaN or +∞.
func CheckL2Sensitivity(label string, l2Sensitivity float64) error {
	if l2Sensitivity <= 0 || math.IsInf(l2Sensitivity, 0) || math.IsNaN(l2Sensitivity) {
		return fmt.Errorf("%s: L2Sensitivity is %f, must be strictly positive and finite", label, l2Sensitivity)
	}
	return nil
}

// CheckDecayFactor returns an error if the multiplicative factor of a clip
// schedule is nonpositive, NaN or +∞.
func CheckDecayFactor(label string, factor float64) error {
	if factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return fmt.Errorf("%s: Factor is %f, must be strictly positive and finite", label, factor)
	}
	return nil
}

// CheckShards returns an error if the number of shards is nonpositive.
func CheckShards(label string, shards int) error {
	if shards <= 0 {
		return fmt.Errorf("%s: Shards is %d, must be strictly positive", label, shards)
	}
	return nil
}
