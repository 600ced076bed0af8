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

// Package rand provides the random bits that the secure noise samplers are
// built from. A Source reads from a byte stream, which is crypto/rand in
// production and a fixed stream in tests.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	"sync"

	log "github.com/golang/glog"
)

// Source draws uniform bits, booleans, bounded integers, uniform floats and
// geometric samples from an underlying byte stream.
//
// Safe for concurrent use.
type Source struct {
	bufLock sync.Mutex
	buf     io.Reader

	bitLock sync.Mutex
	bitBuf  uint8
	bitPos  int8
}

var (
	cryptoOnce   sync.Once
	cryptoSource *Source
)

// NewSource returns a Source reading its randomness from r.
func NewSource(r io.Reader) *Source {
	return &Source{buf: r, bitPos: math.MaxInt8}
}

// Crypto returns the process-wide Source backed by crypto/rand.
func Crypto() *Source {
	cryptoOnce.Do(func() {
		cryptoSource = NewSource(bufio.NewReaderSize(cryptorand.Reader, 65536))
	})
	return cryptoSource
}

func (s *Source) read(b []byte) {
	s.bufLock.Lock()
	defer s.bufLock.Unlock()
	if _, err := io.ReadFull(s.buf, b); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
}

// U64 returns a uniformly random uint64.
func (s *Source) U64() uint64 {
	var r [8]uint8
	s.read(r[:])
	return binary.LittleEndian.Uint64(r[:])
}

// U8 returns a uniformly random uint8.
func (s *Source) U8() uint8 {
	var r [1]uint8
	s.read(r[:])
	return r[0]
}

// Boolean returns true or false with equal probability. Bits are consumed
// from the least significant end of each byte read.
func (s *Source) Boolean() bool {
	s.bitLock.Lock()
	defer s.bitLock.Unlock()
	if s.bitPos > 7 { // Out of random bits.
		s.bitBuf = s.U8()
		s.bitPos = 0
	}
	res := s.bitBuf&(1<<s.bitPos) > 0
	s.bitPos++
	return res
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func (s *Source) I63n(n int64) int64 {
	largestMultipleOfN := (math.MaxInt64 / n) * n
	for {
		// Draw random 64 bit sequence and set sign bit to 0.
		r := int64(s.U64()) & 0x7fffffffffffffff
		if r < largestMultipleOfN {
			return r % n
		}
	}
}

// Uniform returns a float64 from the interval (0,1] such that each float
// in the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
func (s *Source) Uniform() float64 {
	i := s.U64() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Pow(2, s.Geometric())
	if r == 0 {
		return 1
	}
	return r
}

// Geometric returns a float64 that counts the number of Bernoulli trials until
// the first success for a success probability of 0.5.
func (s *Source) Geometric() float64 {
	// 1 plus the number of leading zeros from an infinite stream of random bits
	// follows the desired geometric distribution.
	b := 1
	var r uint8
	for r == 0 {
		r = s.U8()
		b += bits.LeadingZeros8(r)
	}
	return float64(b)
}
