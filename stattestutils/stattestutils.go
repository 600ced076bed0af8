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

// Package stattestutils provides basic statistical utility functions for
// checking the distribution of released query results.
//
// This package is not optimized for performance or speed and is only intended
// to be used in tests.
package stattestutils

import "math"

// SampleMean returns the average over the values in the slice, or 0 for an
// empty slice.
func SampleMean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / math.Max(1, float64(len(values)))
}

// SampleVariance returns the mean of the squared distances of the values to
// their mean.
func SampleVariance(values []float64) float64 {
	mean := SampleMean(values)
	var sumOfSquares float64
	for _, v := range values {
		sumOfSquares += (v - mean) * (v - mean)
	}
	return sumOfSquares / math.Max(1, float64(len(values)))
}

// SampleStandardDeviation returns the square root of SampleVariance.
func SampleStandardDeviation(values []float64) float64 {
	return math.Sqrt(SampleVariance(values))
}

// Column returns the i-th element of every row, e.g. to extract the values of
// one coordinate across many released vectors.
func Column(rows [][]float64, i int) []float64 {
	col := make([]float64, len(rows))
	for j, r := range rows {
		col[j] = r[i]
	}
	return col
}
