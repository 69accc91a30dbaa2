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

// Package genid issues, recycles and validates generational identifiers for
// rows of dense, externally owned tables (arenas). An id is an (index,
// generation) pair: the index addresses a slot of the table and the
// generation tells successive occupants of that slot apart, so an id that
// outlives its entity is recognized as stale instead of silently aliasing
// whatever was created in its slot afterwards.
//
// # Slots
//
// An allocator owns a table of slots. A slot is either alive, in which case
// the id made of its index and its generation is alive, or dead, in which
// case it holds the generation to hand out the next time the index is reused
// and a link to the next dead slot. The dead slots form an intrusive singly
// linked free list rooted at the allocator:
//
//	slots:   [0:alive v1] [1:dead v2 ->3] [2:alive v1] [3:dead v4 ->nil]
//	head:    1
//
// Create pops the head of the free list (so the most recently killed index
// is reused first) or, if the list is empty, appends a slot with generation
// 1. Kill only succeeds for the exact (index, generation) pair that is alive;
// it bumps the slot's generation and pushes the slot onto the free list.
// Killing a stale, dead or unknown id is a no-op that reports false: several
// owners may race to retire the same entity and that is not an error.
//
// Links are stored as index+1 with 0 terminating the list, which keeps a
// slot at 12 bytes and bounds a table at 2^32-1 slots.
//
// # Epochs
//
// Every kill folds the killed id into the allocator's Epoch. Structures that
// hold ids keep a Snapshot of the epoch and compare it with the allocator in
// O(1) to learn whether anything died since they last synced, rather than
// re-validating every id they hold. KillMultiple returns the ids that died
// together with the epoch before and after the batch so that downstream
// structures can apply the batch in one step and detect a missed or doubled
// batch.
//
// # Validity proofs
//
// A Valid value wraps something (an id, a slice of ids, a row) that was
// verified alive, together with the epoch at which that was verified. As
// long as the allocator's epoch is unchanged nothing has died and the proof
// holds, so code that has paid for validation once can hand proofs through
// maps, slices and iterators without checking each element again, and
// re-assert the proof once per scope with Check.
//
// # Arenas
//
// The typed API tags ids with an arena marker type that embeds exactly one
// of Fixed (append-only) or Dynamic (killable). ID[Ships] and ID[Planets]
// are different types with the same 8-byte representation. The untyped API
// (UntypedID, UntypedAllocator, UntypedRange) is available for callers that
// keep tables apart themselves.
//
// Nothing in this package is goroutine-safe.
package genid

import (
	"fmt"
	"math"
	"strings"
)

const (
	debug = false

	// maxSlots bounds the slot table so that index+1 fits in a free-list link.
	maxSlots = math.MaxUint32

	minGrowth = 8
)

// Slot is an entry of an allocator's slot table.
type Slot struct {
	// gen is the generation of the alive id at this index or, for a dead
	// slot, the generation the next id created here will get.
	gen Generation
	// nextDead is 1 + the index of the next slot on the free list, or 0 at
	// the end of the list. Meaningless while the slot is alive.
	nextDead uint32
	alive    bool
}

// UntypedAllocator hands out UntypedIDs, recycling the indices of killed
// ids. The zero value is an empty allocator ready to use.
//
// An UntypedAllocator is NOT goroutine-safe.
type UntypedAllocator struct {
	// The allocator used for the slot table.
	allocator SlotAllocator
	// slots is the table; slots[i] describes index i.
	slots []Slot
	// freeHead is 1 + the index of the most recently killed slot, or 0 if no
	// slot is dead.
	freeHead uint32
	// The number of alive slots.
	alive int
	// The fold of every id killed so far.
	epoch Epoch
	// Consumed by NewUntypedAllocator.
	initialCapacity int
}

// NewUntypedAllocator constructs an empty allocator.
func NewUntypedAllocator(options ...option) *UntypedAllocator {
	a := &UntypedAllocator{}
	a.init(options...)
	return a
}

func (a *UntypedAllocator) init(options ...option) {
	for _, op := range options {
		op.apply(a)
	}
	if a.initialCapacity > 0 {
		a.reserve(a.initialCapacity)
	}
	a.checkInvariants()
}

// Create returns a new alive id, reusing the most recently killed index if
// there is one.
func (a *UntypedAllocator) Create() UntypedID {
	if id, ok := a.reuse(); ok {
		return id
	}
	return a.createNew()
}

// CreateRange appends n contiguous slots with generation 1 and returns the
// range covering them. The slots are appended even if dead slots are
// available, so the range is contiguous. It is meant for append-only tables
// whose ids are never killed.
func (a *UntypedAllocator) CreateRange(n int) UntypedRange {
	start := len(a.slots)
	if n < 0 || uint64(start)+uint64(n) > maxSlots {
		panic(fmt.Sprintf("genid: cannot create %d ids after %d slots", n, start))
	}
	a.reserve(start + n)
	for i := 0; i < n; i++ {
		a.slots = append(a.slots, Slot{gen: FirstGeneration, alive: true})
	}
	a.alive += n
	if debug {
		fmt.Printf("create-range: [%d,%d) alive=%d\n", start, start+n, a.alive)
	}
	a.checkInvariants()
	return UntypedRange{start: uint32(start), end: uint32(start + n)}
}

func (a *UntypedAllocator) reuse() (UntypedID, bool) {
	if a.freeHead == 0 {
		return 0, false
	}
	index := a.freeHead - 1
	s := &a.slots[index]
	a.freeHead = s.nextDead
	s.nextDead = 0
	s.alive = true
	a.alive++

	id := makeUntypedID(index, s.gen)
	if debug {
		fmt.Printf("create(reuse): id=%s head=%d alive=%d\n", id, int(a.freeHead)-1, a.alive)
	}
	a.checkInvariants()
	return id, true
}

func (a *UntypedAllocator) createNew() UntypedID {
	index := len(a.slots)
	if uint64(index) >= maxSlots {
		panic(fmt.Sprintf("genid: index space exhausted at %d slots", index))
	}
	a.reserve(index + 1)
	a.slots = append(a.slots, Slot{gen: FirstGeneration, alive: true})
	a.alive++

	id := firstUntypedID(uint32(index))
	if debug {
		fmt.Printf("create(append): id=%s alive=%d\n", id, a.alive)
	}
	a.checkInvariants()
	return id
}

// Kill retires id. It returns true if id was alive, in which case its slot
// moves to the head of the free list with the next generation and the epoch
// advances. If id is stale, already dead, zero or was never created Kill
// does nothing and returns false.
func (a *UntypedAllocator) Kill(id UntypedID) bool {
	index := id.Index()
	if uint64(index) >= uint64(len(a.slots)) {
		return false
	}
	s := &a.slots[index]
	if !s.alive || s.gen != id.Generation() {
		if debug {
			fmt.Printf("kill(rejected): id=%s alive=%t gen=%s\n", id, s.alive, s.gen)
		}
		return false
	}

	s.alive = false
	s.gen = s.gen.Next()
	s.nextDead = a.freeHead
	a.freeHead = index + 1
	a.alive--
	a.epoch = a.epoch.Advance(id)

	if debug {
		fmt.Printf("kill: id=%s next-gen=%s alive=%d epoch=%s\n", id, s.gen, a.alive, a.epoch)
	}
	a.checkInvariants()
	return true
}

// KillMultiple kills each of ids in order. Ids that are not alive when their
// turn comes, including repeats of an id killed earlier in the same call,
// are skipped. The result lists the ids that died along with the epoch
// before and after the batch.
func (a *UntypedAllocator) KillMultiple(ids []UntypedID) UntypedKilled {
	k := UntypedKilled{Before: a.epoch}
	for _, id := range ids {
		if a.Kill(id) {
			k.IDs = append(k.IDs, id)
		}
	}
	k.After = a.epoch
	return k
}

// IsAlive reports whether id is alive: its slot exists, is alive and has
// id's generation.
func (a *UntypedAllocator) IsAlive(id UntypedID) bool {
	index := id.Index()
	if uint64(index) >= uint64(len(a.slots)) {
		return false
	}
	s := &a.slots[index]
	return s.alive && s.gen == id.Generation()
}

// All calls yield sequentially for each alive id in ascending index order.
// If yield returns false, iteration stops. The allocator must not be mutated
// during iteration.
func (a *UntypedAllocator) All(yield func(id UntypedID) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.alive && !yield(makeUntypedID(uint32(i), s.gen)) {
			return
		}
	}
}

// Epoch returns the fold of every id killed so far.
func (a *UntypedAllocator) Epoch() Epoch {
	return a.epoch
}

// Len returns the number of alive ids.
func (a *UntypedAllocator) Len() int {
	return a.alive
}

// Slots returns the length of the slot table, alive and dead slots alike.
func (a *UntypedAllocator) Slots() int {
	return len(a.slots)
}

// Close releases the slot table back to the configured SlotAllocator. It is
// unnecessary to close an allocator using the default SlotAllocator. It is
// invalid to use an allocator after it has been closed, though Close itself
// is idempotent.
func (a *UntypedAllocator) Close() {
	if cap(a.slots) > 0 {
		a.slotAllocator().FreeSlots(a.slots[:cap(a.slots)])
	}
	a.slots = nil
	a.freeHead = 0
	a.alive = 0
}

func (a *UntypedAllocator) slotAllocator() SlotAllocator {
	if a.allocator == nil {
		a.allocator = defaultSlotAllocator{}
	}
	return a.allocator
}

// reserve makes room for n slots without further allocation.
func (a *UntypedAllocator) reserve(n int) {
	oldCap := cap(a.slots)
	if n <= oldCap {
		return
	}
	newCap := max(n, 2*oldCap, minGrowth)

	if debug {
		fmt.Printf("grow: capacity=%d->%d\n", oldCap, newCap)
	}

	slots := a.slotAllocator().AllocSlots(newCap)
	copy(slots, a.slots)
	if oldCap > 0 {
		a.slotAllocator().FreeSlots(a.slots[:oldCap])
	}
	a.slots = slots[:len(a.slots)]
}

func (a *UntypedAllocator) checkInvariants() {
	if invariants {
		var dead int
		for i := range a.slots {
			s := &a.slots[i]
			if s.gen == 0 {
				panic(fmt.Sprintf("invariant failed: slot(%d) has zero generation\n%s", i, a.debugString()))
			}
			if !s.alive {
				dead++
			}
		}
		if alive := len(a.slots) - dead; alive != a.alive {
			panic(fmt.Sprintf("invariant failed: found %d alive slots, but alive count is %d\n%s",
				alive, a.alive, a.debugString()))
		}

		// Every dead slot is on the free list exactly once and the list ends.
		var linked int
		for next := a.freeHead; next != 0; {
			index := next - 1
			if uint64(index) >= uint64(len(a.slots)) {
				panic(fmt.Sprintf("invariant failed: free list links to slot(%d) beyond %d slots\n%s",
					index, len(a.slots), a.debugString()))
			}
			s := &a.slots[index]
			if s.alive {
				panic(fmt.Sprintf("invariant failed: free list links to alive slot(%d)\n%s",
					index, a.debugString()))
			}
			linked++
			if linked > dead {
				panic(fmt.Sprintf("invariant failed: free list is cyclic\n%s", a.debugString()))
			}
			next = s.nextDead
		}
		if linked != dead {
			panic(fmt.Sprintf("invariant failed: free list holds %d slots, but %d are dead\n%s",
				linked, dead, a.debugString()))
		}
	}
}

func (a *UntypedAllocator) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "slots=%d  alive=%d  head=%d  epoch=%s\n",
		len(a.slots), a.alive, int64(a.freeHead)-1, a.epoch)
	for i := range a.slots {
		s := &a.slots[i]
		if s.alive {
			fmt.Fprintf(&buf, "  %4d: alive %s\n", i, s.gen)
		} else {
			fmt.Fprintf(&buf, "  %4d: dead  %s -> %d\n", i, s.gen, int64(s.nextDead)-1)
		}
	}
	return buf.String()
}
