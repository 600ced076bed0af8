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
	"sync"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type seededGaussian struct {
	mu     sync.Mutex
	normal distuv.Normal
}

// Seeded returns a Generator producing a reproducible sequence of standard
// normal draws from a pseudo-random source initialized with seed.
//
// The draws are not suitable for releasing private data: they are predictable
// and subject to floating-point artifacts. Use Secure() in production.
func Seeded(seed uint64) Generator {
	return &seededGaussian{normal: distuv.Normal{Mu: 0, Sigma: 1, Src: exprand.NewSource(seed)}}
}

// StandardNormal fills dst with draws from N(0, 1).
func (g *seededGaussian) StandardNormal(dst []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range dst {
		dst[i] = g.normal.Rand()
	}
}
