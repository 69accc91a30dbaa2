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

import "fmt"

// UntypedRange is the half-open interval [start, end) of indices of
// contiguous generation-1 ids, as produced for append-only tables. The zero
// value is empty.
type UntypedRange struct {
	start uint32
	end   uint32
}

// UntypedRangeOf returns the range holding just id.
func UntypedRangeOf(id UntypedID) UntypedRange {
	mustBeFirst(id)
	return UntypedRange{start: id.Index(), end: id.Index() + 1}
}

// Start returns the first index of the range.
func (r UntypedRange) Start() uint32 {
	return r.start
}

// End returns the index one past the last index of the range.
func (r UntypedRange) End() uint32 {
	return r.end
}

// Len returns the number of ids in the range.
func (r UntypedRange) Len() int {
	return int(r.end - r.start)
}

// Empty reports whether the range holds no ids.
func (r UntypedRange) Empty() bool {
	return r.start == r.end
}

// Extend grows the range by id, which must sit immediately before the start
// or at the end of the range. Extending the zero range starts it at id.
// Any other index, or a generation other than 1, means ids were produced
// out of order and Extend panics.
func (r *UntypedRange) Extend(id UntypedID) {
	mustBeFirst(id)
	index := uint64(id.Index())
	switch {
	case uint64(r.end) == index:
		r.end++
	case uint64(r.start) == index+1:
		r.start--
	case *r == (UntypedRange{}):
		*r = UntypedRangeOf(id)
	default:
		panic(fmt.Sprintf("genid: cannot extend [%d,%d) with non-adjacent id %s", r.start, r.end, id))
	}
}

// Position returns the offset of id within the range, or ok=false if id is
// outside it.
func (r UntypedRange) Position(id UntypedID) (offset int, ok bool) {
	index := id.Index()
	if index < r.start || index >= r.end {
		return 0, false
	}
	return int(index - r.start), true
}

// Contains reports whether id's index lies within the range.
func (r UntypedRange) Contains(id UntypedID) bool {
	_, ok := r.Position(id)
	return ok
}

// All calls yield sequentially for each id of the range in ascending order.
// If yield returns false, iteration stops.
func (r UntypedRange) All(yield func(id UntypedID) bool) {
	for i := r.start; i < r.end; i++ {
		if !yield(firstUntypedID(i)) {
			return
		}
	}
}

func (r UntypedRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.start, r.end)
}

func mustBeFirst(id UntypedID) {
	if g := id.Generation(); g != FirstGeneration {
		panic(fmt.Sprintf("genid: range member %d has generation %d, want %d",
			id.Index(), g.Get(), FirstGeneration.Get()))
	}
}

// Range is a contiguous run of ids of the fixed arena A.
type Range[A FixedArena] struct {
	untyped UntypedRange
}

// RangeOf returns the range holding just id.
func RangeOf[A FixedArena](id ID[A]) Range[A] {
	return Range[A]{untyped: UntypedRangeOf(id.untyped)}
}

// Untyped returns the arena-erased range.
func (r Range[A]) Untyped() UntypedRange {
	return r.untyped
}

// Start returns the first index of the range.
func (r Range[A]) Start() uint32 {
	return r.untyped.start
}

// End returns the index one past the last index of the range.
func (r Range[A]) End() uint32 {
	return r.untyped.end
}

// Len returns the number of ids in the range.
func (r Range[A]) Len() int {
	return r.untyped.Len()
}

// Empty reports whether the range holds no ids.
func (r Range[A]) Empty() bool {
	return r.untyped.Empty()
}

// Extend grows the range by id. See UntypedRange.Extend.
func (r *Range[A]) Extend(id ID[A]) {
	r.untyped.Extend(id.untyped)
}

// Position returns the offset of id within the range.
func (r Range[A]) Position(id ID[A]) (offset int, ok bool) {
	return r.untyped.Position(id.untyped)
}

// Contains reports whether id lies within the range.
func (r Range[A]) Contains(id ID[A]) bool {
	return r.untyped.Contains(id.untyped)
}

// All calls yield sequentially for each id of the range in ascending order.
func (r Range[A]) All(yield func(id ID[A]) bool) {
	r.untyped.All(func(id UntypedID) bool {
		return yield(makeID[A](id))
	})
}

func (r Range[A]) String() string {
	return r.untyped.String()
}

// UntypedCounter allocates ids for append-only tables that never kill
// anything and so need neither a slot table nor an epoch: it only advances a
// running count. The zero value starts at index 0.
type UntypedCounter struct {
	next uint32
}

// Next returns the next id.
func (c *UntypedCounter) Next() UntypedID {
	return firstUntypedID(c.Take(1).start)
}

// Take returns the next n ids as a range.
func (c *UntypedCounter) Take(n int) UntypedRange {
	start := c.next
	if n < 0 || uint64(start)+uint64(n) > maxSlots {
		panic(fmt.Sprintf("genid: cannot take %d ids after %d", n, start))
	}
	c.next += uint32(n)
	return UntypedRange{start: start, end: c.next}
}

// Len returns the number of ids handed out.
func (c *UntypedCounter) Len() int {
	return int(c.next)
}

// Counter is the typed counterpart of UntypedCounter for fixed arenas.
type Counter[A FixedArena] struct {
	untyped UntypedCounter
}

// Next returns the next id.
func (c *Counter[A]) Next() ID[A] {
	return makeID[A](c.untyped.Next())
}

// Take returns the next n ids as a range.
func (c *Counter[A]) Take(n int) Range[A] {
	return Range[A]{untyped: c.untyped.Take(n)}
}

// Len returns the number of ids handed out.
func (c *Counter[A]) Len() int {
	return c.untyped.Len()
}
