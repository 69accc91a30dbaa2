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

//go:build genid_advanced

package genid

import "fmt"

// This file is compiled with -tags genid_advanced. It exports constructors
// that bypass the allocator, for callers building their own allocators or
// test fixtures.

// NewUntypedID returns the id (index, gen). It panics if gen is zero.
func NewUntypedID(index uint32, gen Generation) UntypedID {
	return makeUntypedID(index, MustGeneration(gen.Get()))
}

// NewID returns the id (index, gen) of arena A. It panics if gen is zero.
func NewID[A Arena](index uint32, gen Generation) ID[A] {
	return makeID[A](NewUntypedID(index, gen))
}

// FirstID returns the id with the given index and generation 1.
func FirstID[A Arena](index uint32) ID[A] {
	return makeID[A](firstUntypedID(index))
}

// NewUntypedRange returns the range [start, end). It panics if end < start.
func NewUntypedRange(start, end uint32) UntypedRange {
	if end < start {
		panic(fmt.Sprintf("genid: invalid range [%d,%d)", start, end))
	}
	return UntypedRange{start: start, end: end}
}

// NewRange returns the range [start, end) of arena A.
func NewRange[A FixedArena](start, end uint32) Range[A] {
	return Range[A]{untyped: NewUntypedRange(start, end)}
}

// Assert wraps value in a proof stamped with src's current epoch without
// checking anything.
func Assert[T any](value T, src EpochSource) Valid[T] {
	return makeValid(value, src.Epoch())
}
