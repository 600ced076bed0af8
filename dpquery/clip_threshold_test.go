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
	"math"
	"sync"
	"testing"
)

func TestClipThreshold(t *testing.T) {
	clip := mustClip(t, 5)
	if got := clip.Load(); got != 5 {
		t.Errorf("Load: got %f, want 5", got)
	}
	if err := clip.Store(0.25); err != nil {
		t.Fatalf("Store(0.25): got err %v", err)
	}
	if got := clip.Load(); got != 0.25 {
		t.Errorf("Load after Store(0.25): got %f, want 0.25", got)
	}
	for _, c := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := clip.Store(c); err == nil {
			t.Errorf("Store(%f): got no error", c)
		}
		if _, err := NewClipThreshold(c); err == nil {
			t.Errorf("NewClipThreshold(%f): got no error", c)
		}
	}
	if got := clip.Load(); got != 0.25 {
		t.Errorf("Load after rejected stores: got %f, want 0.25", got)
	}
}

func TestNilClipThreshold(t *testing.T) {
	var clip *ClipThreshold
	if got := clip.Load(); got != 0 {
		t.Errorf("Load on nil threshold: got %f, want 0", got)
	}
	if err := clip.Store(1); err == nil {
		t.Errorf("Store on nil threshold: got no error")
	}
}

func TestClipThresholdConcurrentUpdates(t *testing.T) {
	clip := mustClip(t, 1)
	q := newQuery(t, &GaussianSumQueryOptions{ClipThreshold: clip, Generator: panickingGenerator{}})
	gs := q.InitialGlobalState()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			clip.Store(float64(i))
		}(i)
		go func() {
			defer wg.Done()
			if c := q.DeriveSampleParams(gs).L2NormClip; c < 0 || c > 7 {
				t.Errorf("DeriveSampleParams during updates: got clip %f, want a stored value", c)
			}
		}()
	}
	wg.Wait()
}
