// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genid

import (
	"fmt"
	"math"
)

// Generation is a per-slot reuse counter. It is never zero: the zero value
// is reserved so that a packed UntypedID is never zero either.
type Generation uint32

// FirstGeneration is the generation assigned to a slot when it is first
// appended to an allocator's table.
const FirstGeneration Generation = 1

// NewGeneration returns the generation n, or ok=false if n is zero.
func NewGeneration(n uint32) (g Generation, ok bool) {
	if n == 0 {
		return 0, false
	}
	return Generation(n), true
}

// MustGeneration is like NewGeneration but panics if n is zero.
func MustGeneration(n uint32) Generation {
	g, ok := NewGeneration(n)
	if !ok {
		panic("genid: generation must be non-zero")
	}
	return g
}

// Get returns the generation as a uint32.
func (g Generation) Get() uint32 {
	return uint32(g)
}

// Next returns the generation following g. The sequence skips zero, wrapping
// from math.MaxUint32 back to FirstGeneration, for a cycle of 2^32-1 values.
func (g Generation) Next() Generation {
	if g == math.MaxUint32 {
		return FirstGeneration
	}
	return g + 1
}

func (g Generation) String() string {
	return fmt.Sprintf("v%d", uint32(g))
}
