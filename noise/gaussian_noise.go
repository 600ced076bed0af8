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
	"math"

	"github.com/google/differential-privacy/dpsum/rand"
)

var (
	// The square root of the maximum number n of Bernoulli trials from which a binomial
	// sample is drawn. Larger values result in more fine-grained noise, but increase the
	// chance of sampling inaccuracies due to overflows. The probability of such an event
	// will be roughly 2⁻⁴⁵ or less, if the square root is set to 2⁵⁷.
	binomialBound float64 = math.Exp2(57.0)
	// Two-sided geometric samples k are bounded so that the rejection sampling step
	// m = (k + l) * (sqrt(2 * n) + 1) cannot overflow int64.
	geometricBound int64 = (math.MaxInt64 / int64(math.Round(math.Sqrt2*binomialBound+1.0))) - 1
)

type secureGaussian struct {
	src *rand.Source
}

// Secure returns a Generator whose standard normal draws are produced by a
// binomial sampling mechanism over cryptographically secure random bits. The
// draws lie on a grid of spacing 2⁻⁵⁶, which avoids the floating-point
// artifacts that make textbook samplers leak information.
//
// Safe for concurrent use.
func Secure() Generator {
	return secureGaussian{src: rand.Crypto()}
}

// StandardNormal fills dst with draws from N(0, 1).
func (g secureGaussian) StandardNormal(dst []float64) {
	for i := range dst {
		dst[i] = sampleGaussian(g.src, 1)
	}
}

// sampleGaussian returns a sample of N(0, σ²) rounded to a power-of-two
// granularity that depends on σ.
func sampleGaussian(src *rand.Source, sigma float64) float64 {
	granularity := ceilPowerOfTwo(2.0 * sigma / binomialBound)
	// sqrtN lies between binomialBound / 2 and binomialBound, so the binomial
	// distribution has enough Bernoulli trials to approximate a Gaussian closely.
	sqrtN := 2.0 * sigma / granularity
	return float64(symmetricBinomial(src, sqrtN)) * granularity
}

// symmetricBinomial returns a random sample m where the term m + n / 2 is drawn from
// a binomial distribution of n Bernoulli trials that have a success probability of
// 0.5 each. The sampling technique is based on Bringmann et al.'s rejection sampling
// approach proposed in "Internal DLA: Efficient Simulation of a Physical Growth Model"
// (https://people.mpi-inf.mpg.de/~kbringma/paper/2014ICALP.pdf).
func symmetricBinomial(src *rand.Source, sqrtN float64) int64 {
	stepSize := int64(math.Round(math.Sqrt2*sqrtN + 1.0))
	for {
		// Subtract 1 to count Bernoulli failures rather than trials.
		k := int64(math.Min(src.Geometric()-1.0, float64(geometricBound)))
		twoSided := k
		if src.Boolean() {
			twoSided = -twoSided - 1
		}

		m := stepSize*twoSided + src.I63n(stepSize)
		p := binomialProbability(sqrtN, m)
		if p > 0.0 && src.Uniform() < p*float64(stepSize)*math.Pow(2.0, float64(k))/4.0 {
			return m
		}
	}
}

// binomialProbability approximates the probability of a random sample m + n / 2
// drawn from a binomial distribution of n Bernoulli trials that have a success
// probability of 1 / 2 each (Lemma 7 of
// https://github.com/google/differential-privacy/blob/main/common_docs/Secure_Noise_Generation.pdf).
func binomialProbability(sqrtN float64, m int64) float64 {
	if math.Abs(float64(m)) > sqrtN*math.Sqrt(math.Log(sqrtN)/2.0) {
		return 0.0
	}
	return (math.Sqrt(2.0/math.Pi) / sqrtN) *
		math.Exp((-2.0*float64(m)*float64(m))/(sqrtN*sqrtN)) *
		(1 - 0.4*math.Pow(2.0, 1.5)*math.Pow(math.Log(sqrtN), 1.5)/sqrtN)
}

// ceilPowerOfTwo returns the smallest power of 2 larger or equal to x. The
// value of x must be a finite positive number not greater than 2^1023,
// otherwise NaN is returned.
func ceilPowerOfTwo(x float64) float64 {
	if x <= 0.0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}
	// IEEE 754 layout: 1 sign bit, 11 exponent bits, 52 mantissa bits.
	const (
		exponentMask uint64 = 0x7ff0000000000000
		mantissaMask uint64 = 0x000fffffffffffff
	)
	b := math.Float64bits(x)
	if b&mantissaMask == 0 {
		return x
	}
	exponent := b & exponentMask
	if exponent >= math.Float64bits(math.MaxFloat64)&exponentMask {
		return math.NaN()
	}
	// Incrementing the exponent with an all-zero mantissa gives the next power of 2.
	return math.Float64frombits(exponent + 0x0010000000000000)
}
