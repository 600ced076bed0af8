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

package dpquery

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/differential-privacy/dpsum/checks"
)

// ClipThreshold is a shared, mutable L2 norm clip. It may be updated from any
// goroutine while samples are being derived; every read observes either the
// old or the new value, never a torn one.
//
// A nil *ClipThreshold reads as 0, i.e. it clips every record to zero.
type ClipThreshold struct {
	bits atomic.Uint64
}

// NewClipThreshold returns a ClipThreshold holding c.
func NewClipThreshold(c float64) (*ClipThreshold, error) {
	if err := checks.CheckL2NormClip("NewClipThreshold", c); err != nil {
		return nil, err
	}
	t := &ClipThreshold{}
	t.bits.Store(math.Float64bits(c))
	return t, nil
}

// Load returns the current value of the threshold.
func (t *ClipThreshold) Load() float64 {
	if t == nil {
		return 0
	}
	return math.Float64frombits(t.bits.Load())
}

// Store replaces the value of the threshold. Samples whose params were derived
// before the call keep clipping with the old value.
func (t *ClipThreshold) Store(c float64) error {
	if t == nil {
		return fmt.Errorf("ClipThreshold.Store: nil threshold")
	}
	if err := checks.CheckL2NormClip("ClipThreshold.Store", c); err != nil {
		return err
	}
	t.bits.Store(math.Float64bits(c))
	return nil
}

func (t *ClipThreshold) String() string {
	return fmt.Sprintf("%g", t.Load())
}
