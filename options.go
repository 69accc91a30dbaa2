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

// option provide an interface to do work on an allocator while it is being
// created.
type option interface {
	apply(a *UntypedAllocator)
}

type capacityOption struct {
	capacity int
}

func (op capacityOption) apply(a *UntypedAllocator) {
	a.initialCapacity = op.capacity
}

// WithCapacity is an option to reserve room for capacity slots up front so
// that the first capacity creations do not grow the slot table.
func WithCapacity(capacity int) option {
	return capacityOption{capacity}
}

// SlotAllocator specifies an interface for allocating and releasing the slot
// tables used by an allocator. The default allocator utilizes Go's builtin
// make() and allows the GC to reclaim memory.
//
// If the SlotAllocator is manually managing memory and requires that slot
// tables be freed then Close must be called in order to ensure FreeSlots is
// called for the final table.
type SlotAllocator interface {
	// AllocSlots should return a slice equivalent to make([]Slot, n).
	AllocSlots(n int) []Slot

	// FreeSlots can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocSlots.
	FreeSlots(v []Slot)
}

type defaultSlotAllocator struct{}

func (defaultSlotAllocator) AllocSlots(n int) []Slot {
	return make([]Slot, n)
}

func (defaultSlotAllocator) FreeSlots(v []Slot) {
}

type slotAllocatorOption struct {
	allocator SlotAllocator
}

func (op slotAllocatorOption) apply(a *UntypedAllocator) {
	a.allocator = op.allocator
}

// WithSlotAllocator is an option to specify the SlotAllocator used for the
// slot table.
func WithSlotAllocator(allocator SlotAllocator) option {
	return slotAllocatorOption{allocator}
}
