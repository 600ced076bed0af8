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

// Package structure contains the nested numeric values that records, sample
// states and released results are made of.
//
// A Structure is a scalar, a dense vector of float64, or an ordered sequence
// of nested Structures. Two Structures can be combined only if they have the
// same kind at every position and the same lengths at every level. Structures
// are immutable: every operation returns a new value.
package structure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the representation kind of a node of a Structure.
type Kind int

// Kinds of Structure nodes. The zero Structure has kind Invalid.
const (
	Invalid Kind = iota
	Scalar
	Vector
	Sequence
)

var kindName = map[Kind]string{
	Invalid:  "Invalid",
	Scalar:   "Scalar",
	Vector:   "Vector",
	Sequence: "Sequence",
}

func (k Kind) String() string {
	if n, ok := kindName[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	// ErrTypeMismatch is returned when corresponding nodes of two Structures
	// have different kinds, e.g. a Vector and a Sequence.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrShapeMismatch is returned when corresponding nodes of two Structures
	// have the same kind but different lengths.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalid is returned for Structures that contain a zero-valued node.
	ErrInvalid = errors.New("invalid structure")
)

// Structure is a scalar, a vector or a sequence of Structures.
type Structure struct {
	kind   Kind
	scalar float64
	vector []float64
	elems  []Structure
}

// NewScalar returns a Structure holding the single value x.
func NewScalar(x float64) Structure {
	return Structure{kind: Scalar, scalar: x}
}

// NewVector returns a Structure holding a copy of v.
func NewVector(v ...float64) Structure {
	c := make([]float64, len(v))
	copy(c, v)
	return Structure{kind: Vector, vector: c}
}

// NewSequence returns a Structure holding the given elements in order.
func NewSequence(elems ...Structure) Structure {
	c := make([]Structure, len(elems))
	copy(c, elems)
	return Structure{kind: Sequence, elems: c}
}

// Float returns the value of a Scalar, and 0 for other kinds.
func (s Structure) Float() float64 {
	return s.scalar
}

// Vector returns a copy of the values of a Vector, and nil for other kinds.
func (s Structure) Vector() []float64 {
	if s.kind != Vector {
		return nil
	}
	c := make([]float64, len(s.vector))
	copy(c, s.vector)
	return c
}

// IsValid reports whether s and all of its nested nodes have a valid kind.
func (s Structure) IsValid() bool {
	switch s.kind {
	case Scalar, Vector:
		return true
	case Sequence:
		for _, e := range s.elems {
			if !e.IsValid() {
				return false
			}
		}
		return true
	}
	return false
}

// NumElements returns the total number of float64 values held by s.
func (s Structure) NumElements() int {
	switch s.kind {
	case Scalar:
		return 1
	case Vector:
		return len(s.vector)
	case Sequence:
		n := 0
		for _, e := range s.elems {
			n += e.NumElements()
		}
		return n
	}
	return 0
}

// Flatten returns the values of s in depth-first order.
func (s Structure) Flatten() []float64 {
	out := make([]float64, 0, s.NumElements())
	return s.appendTo(out)
}

func (s Structure) appendTo(out []float64) []float64 {
	switch s.kind {
	case Scalar:
		out = append(out, s.scalar)
	case Vector:
		out = append(out, s.vector...)
	case Sequence:
		for _, e := range s.elems {
			out = e.appendTo(out)
		}
	}
	return out
}

// Unflatten returns a Structure shaped like template holding values, which
// must be in the depth-first order produced by Flatten.
func Unflatten(template Structure, values []float64) (Structure, error) {
	if !template.IsValid() {
		return Structure{}, fmt.Errorf("Unflatten: %w", ErrInvalid)
	}
	if n := template.NumElements(); n != len(values) {
		return Structure{}, fmt.Errorf("Unflatten: %w: template holds %d values, got %d", ErrShapeMismatch, n, len(values))
	}
	s, _ := template.fill(values)
	return s, nil
}

func (s Structure) fill(values []float64) (Structure, []float64) {
	switch s.kind {
	case Scalar:
		return NewScalar(values[0]), values[1:]
	case Vector:
		n := len(s.vector)
		return NewVector(values[:n]...), values[n:]
	default:
		elems := make([]Structure, len(s.elems))
		for i, e := range s.elems {
			elems[i], values = e.fill(values)
		}
		return Structure{kind: Sequence, elems: elems}, values
	}
}

// ZerosLike returns a Structure with the shape of template and all values 0.
func ZerosLike(template Structure) (Structure, error) {
	if !template.IsValid() {
		return Structure{}, fmt.Errorf("ZerosLike: %w", ErrInvalid)
	}
	return template.zeros(), nil
}

// Equal reports whether s and o have the same shape and exactly the same values.
func (s Structure) Equal(o Structure) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case Scalar:
		return s.scalar == o.scalar
	case Vector:
		if len(s.vector) != len(o.vector) {
			return false
		}
		for i := range s.vector {
			if s.vector[i] != o.vector[i] {
				return false
			}
		}
		return true
	case Sequence:
		if len(s.elems) != len(o.elems) {
			return false
		}
		for i := range s.elems {
			if !s.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// String formats scalars as numbers, vectors as [a b c] and sequences as (x, y).
func (s Structure) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Structure) write(b *strings.Builder) {
	switch s.kind {
	case Scalar:
		b.WriteString(strconv.FormatFloat(s.scalar, 'g', -1, 64))
	case Vector:
		b.WriteByte('[')
		for i, v := range s.vector {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte(']')
	case Sequence:
		b.WriteByte('(')
		for i, e := range s.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<invalid>")
	}
}
