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

import "fmt"

// FromValue converts a decoded JSON or YAML value into a Structure. Numbers
// become Scalars, lists made only of numbers become Vectors, and any other
// list becomes a Sequence of its converted elements. An empty list is an
// empty Sequence.
func FromValue(v any) (Structure, error) {
	switch x := v.(type) {
	case float64:
		return NewScalar(x), nil
	case int:
		return NewScalar(float64(x)), nil
	case []float64:
		return NewVector(x...), nil
	case []any:
		if len(x) == 0 {
			return NewSequence(), nil
		}
		if vec, ok := numbers(x); ok {
			return Structure{kind: Vector, vector: vec}, nil
		}
		elems := make([]Structure, len(x))
		for i, e := range x {
			s, err := FromValue(e)
			if err != nil {
				return Structure{}, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = s
		}
		return Structure{kind: Sequence, elems: elems}, nil
	}
	return Structure{}, fmt.Errorf("FromValue: unsupported value %v of type %T", v, v)
}

func numbers(xs []any) ([]float64, bool) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		switch n := x.(type) {
		case float64:
			out[i] = n
		case int:
			out[i] = float64(n)
		default:
			return nil, false
		}
	}
	return out, true
}

// ToValue is the inverse of FromValue: Scalars become float64, Vectors
// []float64 and Sequences []any.
func (s Structure) ToValue() any {
	switch s.kind {
	case Scalar:
		return s.scalar
	case Vector:
		return s.Vector()
	case Sequence:
		out := make([]any, len(s.elems))
		for i, e := range s.elems {
			out[i] = e.ToValue()
		}
		return out
	}
	return nil
}
