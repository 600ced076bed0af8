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
	"strconv"
)

// CheckCompatible returns an error wrapping ErrTypeMismatch if a and b differ
// in kind at any position they share, or one wrapping ErrShapeMismatch if the
// kinds agree but lengths differ at some level. Kinds are compared over the
// whole structure before any length, so a kind difference is reported even
// when the lengths differ too.
func CheckCompatible(a, b Structure) error {
	if !a.IsValid() || !b.IsValid() {
		return ErrInvalid
	}
	if err := checkKinds(a, b, ""); err != nil {
		return err
	}
	return checkShapes(a, b, "")
}

func checkKinds(a, b Structure, path string) error {
	if a.kind != b.kind {
		return fmt.Errorf("%w at %s: %v vs %v", ErrTypeMismatch, root(path), a.kind, b.kind)
	}
	if a.kind != Sequence {
		return nil
	}
	for i := 0; i < min(len(a.elems), len(b.elems)); i++ {
		if err := checkKinds(a.elems[i], b.elems[i], index(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func checkShapes(a, b Structure, path string) error {
	switch a.kind {
	case Vector:
		if len(a.vector) != len(b.vector) {
			return fmt.Errorf("%w at %s: %d vs %d values", ErrShapeMismatch, root(path), len(a.vector), len(b.vector))
		}
	case Sequence:
		if len(a.elems) != len(b.elems) {
			return fmt.Errorf("%w at %s: %d vs %d elements", ErrShapeMismatch, root(path), len(a.elems), len(b.elems))
		}
		for i := range a.elems {
			if err := checkShapes(a.elems[i], b.elems[i], index(path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func root(path string) string {
	if path == "" {
		return "root"
	}
	return "root" + path
}
