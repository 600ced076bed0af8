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

package structure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add returns the element-wise sum of a and b. It returns an error, and no
// partial result, if the two are not compatible (see CheckCompatible).
func Add(a, b Structure) (Structure, error) {
	if err := CheckCompatible(a, b); err != nil {
		return Structure{}, fmt.Errorf("Add: %w", err)
	}
	return add(a, b), nil
}

func add(a, b Structure) Structure {
	switch a.kind {
	case Scalar:
		return NewScalar(a.scalar + b.scalar)
	case Vector:
		return Structure{kind: Vector, vector: floats.AddTo(make([]float64, len(a.vector)), a.vector, b.vector)}
	default:
		elems := make([]Structure, len(a.elems))
		for i := range a.elems {
			elems[i] = add(a.elems[i], b.elems[i])
		}
		return Structure{kind: Sequence, elems: elems}
	}
}

// Scale returns s with every value multiplied by c.
func (s Structure) Scale(c float64) Structure {
	return s.mapLeaves(func(v []float64) []float64 {
		return floats.ScaleTo(make([]float64, len(v)), c, v)
	})
}

func (s Structure) zeros() Structure {
	return s.mapLeaves(func(v []float64) []float64 {
		return make([]float64, len(v))
	})
}

// L2Norm returns the L2 norm of all values of s taken together.
func (s Structure) L2Norm() float64 {
	return floats.Norm(s.Flatten(), 2)
}

// ClipPerLeaf returns s with every scalar and every vector independently
// scaled down so that its L2 norm is at most c. Leaves whose norm is at most c
// are unchanged. A clip of 0 maps every leaf to zero.
func ClipPerLeaf(s Structure, c float64) Structure {
	return s.mapLeaves(func(v []float64) []float64 {
		return clip(v, floats.Norm(v, 2), c)
	})
}

// ClipByGlobalNorm returns s scaled down so that the L2 norm of all of its
// values taken together is at most c.
func ClipByGlobalNorm(s Structure, c float64) Structure {
	if c == 0 {
		return s.zeros()
	}
	norm := s.L2Norm()
	if norm > c {
		return s.Scale(c / norm)
	}
	return s
}

// clip scales v by c / norm if norm exceeds c. NaN values propagate and never
// trigger scaling; an infinite norm scales to NaN.
func clip(v []float64, norm, c float64) []float64 {
	out := make([]float64, len(v))
	if c == 0 {
		return out
	}
	copy(out, v)
	if norm > c {
		floats.Scale(c/norm, out)
	}
	return out
}

// mapLeaves applies f to every vector of s and to every scalar as a vector of
// length 1.
func (s Structure) mapLeaves(f func([]float64) []float64) Structure {
	switch s.kind {
	case Scalar:
		return NewScalar(f([]float64{s.scalar})[0])
	case Vector:
		return Structure{kind: Vector, vector: f(s.vector)}
	case Sequence:
		elems := make([]Structure, len(s.elems))
		for i, e := range s.elems {
			elems[i] = e.mapLeaves(f)
		}
		return Structure{kind: Sequence, elems: elems}
	}
	return s
}

// HasNonFinite reports whether any value of s is NaN or ±∞.
func (s Structure) HasNonFinite() bool {
	for _, v := range s.Flatten() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
