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

// Validator checks ids of arena A and returns proofs for the ones that are
// alive. Allocator, ReadOnly and CreateOnly implement it.
type Validator[A Arena] interface {
	EpochSource
	Validate(id ID[A]) (Valid[ID[A]], bool)
}

var (
	_ Validator[Dynamic] = (*Allocator[Dynamic])(nil)
	_ Validator[Dynamic] = ReadOnly[Dynamic]{}
	_ Validator[Dynamic] = (*CreateOnly[Dynamic])(nil)
)

// Allocator hands out ids of arena A. It is a thin typed layer over an
// UntypedAllocator. The zero value is an empty allocator ready to use.
//
// An Allocator is NOT goroutine-safe.
type Allocator[A Arena] struct {
	untyped UntypedAllocator
}

// New constructs an empty allocator for arena A.
func New[A Arena](options ...option) *Allocator[A] {
	a := &Allocator[A]{}
	a.untyped.init(options...)
	return a
}

// Create returns a new alive id, reusing the most recently killed index if
// there is one. The id is returned as a proof valid at the current epoch.
func (a *Allocator[A]) Create() Valid[ID[A]] {
	return makeValid(makeID[A](a.untyped.Create()), a.untyped.epoch)
}

// CreateRange appends n contiguous ids to a fixed arena's allocator.
func CreateRange[A FixedArena](a *Allocator[A], n int) Range[A] {
	return Range[A]{untyped: a.untyped.CreateRange(n)}
}

// Kill retires id, returning false if it was not alive. Entities of Fixed
// arenas live as long as their allocator: calling Kill on one panics.
func (a *Allocator[A]) Kill(id ID[A]) bool {
	a.mustBeDynamic("Kill")
	return a.untyped.Kill(id.untyped)
}

// KillMultiple kills each of ids in order and returns the ones that died
// with the epoch before and after the batch. See UntypedAllocator.KillMultiple.
func (a *Allocator[A]) KillMultiple(ids []ID[A]) Killed[A] {
	a.mustBeDynamic("KillMultiple")
	k := Killed[A]{Before: a.untyped.epoch}
	for _, id := range ids {
		if a.untyped.Kill(id.untyped) {
			k.IDs = append(k.IDs, id)
		}
	}
	k.After = a.untyped.epoch
	return k
}

func (a *Allocator[A]) mustBeDynamic(op string) {
	if kind := KindOf[A](); kind != KindDynamic {
		panic(fmt.Sprintf("genid: %s on an allocator of a %s arena", op, kind))
	}
}

// IsAlive reports whether id is alive.
func (a *Allocator[A]) IsAlive(id ID[A]) bool {
	return a.untyped.IsAlive(id.untyped)
}

// Validate returns id as a proof if it is alive.
func (a *Allocator[A]) Validate(id ID[A]) (Valid[ID[A]], bool) {
	if !a.untyped.IsAlive(id.untyped) {
		return Valid[ID[A]]{}, false
	}
	return makeValid(id, a.untyped.epoch), true
}

// IDs calls yield sequentially for each alive id in ascending index order.
// If yield returns false, iteration stops. The allocator must not be mutated
// during iteration.
func (a *Allocator[A]) IDs(yield func(id Valid[ID[A]]) bool) {
	epoch := a.untyped.epoch
	a.untyped.All(func(id UntypedID) bool {
		return yield(makeValid(makeID[A](id), epoch))
	})
}

// Epoch returns the fold of every id killed so far.
func (a *Allocator[A]) Epoch() Epoch {
	return a.untyped.epoch
}

// Len returns the number of alive ids.
func (a *Allocator[A]) Len() int {
	return a.untyped.alive
}

// Slots returns the length of the slot table.
func (a *Allocator[A]) Slots() int {
	return len(a.untyped.slots)
}

// Close releases the slot table. See UntypedAllocator.Close.
func (a *Allocator[A]) Close() {
	a.untyped.Close()
}

// ReadOnly returns a view of the allocator that can look ids up and
// validate them but not create or kill. The view remembers the epoch at
// which it was opened.
func (a *Allocator[A]) ReadOnly() ReadOnly[A] {
	return ReadOnly[A]{alloc: a, opened: a.untyped.epoch}
}

// CreateOnly returns a view of the allocator that can create ids but not
// kill them. Proofs issued before the view was opened stay valid while it
// is used, since creating never invalidates an id.
func (a *Allocator[A]) CreateOnly() *CreateOnly[A] {
	return &CreateOnly[A]{alloc: a, opened: a.untyped.epoch}
}

// ReadOnly is a view of an Allocator without mutating operations. See
// Allocator.ReadOnly.
type ReadOnly[A Arena] struct {
	alloc  *Allocator[A]
	opened Epoch
}

// IsAlive reports whether id is alive.
func (r ReadOnly[A]) IsAlive(id ID[A]) bool {
	return r.alloc.IsAlive(id)
}

// Validate returns id as a proof if it is alive.
func (r ReadOnly[A]) Validate(id ID[A]) (Valid[ID[A]], bool) {
	return r.alloc.Validate(id)
}

// IDs iterates the alive ids. See Allocator.IDs.
func (r ReadOnly[A]) IDs(yield func(id Valid[ID[A]]) bool) {
	r.alloc.IDs(yield)
}

// Epoch returns the allocator's current epoch.
func (r ReadOnly[A]) Epoch() Epoch {
	return r.alloc.Epoch()
}

// Len returns the number of alive ids.
func (r ReadOnly[A]) Len() int {
	return r.alloc.Len()
}

// Check panics if an id was killed through the underlying allocator since
// the view was opened, which would invalidate every proof issued through
// it.
func (r ReadOnly[A]) Check() {
	checkView("read-only", r.opened, r.alloc.Epoch())
}

// CreateOnly is a view of an Allocator that withholds Kill. See
// Allocator.CreateOnly.
type CreateOnly[A Arena] struct {
	alloc  *Allocator[A]
	opened Epoch
}

// Create returns a new alive id. See Allocator.Create.
func (c *CreateOnly[A]) Create() Valid[ID[A]] {
	return c.alloc.Create()
}

// IsAlive reports whether id is alive.
func (c *CreateOnly[A]) IsAlive(id ID[A]) bool {
	return c.alloc.IsAlive(id)
}

// Validate returns id as a proof if it is alive.
func (c *CreateOnly[A]) Validate(id ID[A]) (Valid[ID[A]], bool) {
	return c.alloc.Validate(id)
}

// IDs iterates the alive ids. See Allocator.IDs.
func (c *CreateOnly[A]) IDs(yield func(id Valid[ID[A]]) bool) {
	c.alloc.IDs(yield)
}

// Epoch returns the allocator's current epoch.
func (c *CreateOnly[A]) Epoch() Epoch {
	return c.alloc.Epoch()
}

// Len returns the number of alive ids.
func (c *CreateOnly[A]) Len() int {
	return c.alloc.Len()
}

// Check panics if an id was killed through the underlying allocator since
// the view was opened.
func (c *CreateOnly[A]) Check() {
	checkView("create-only", c.opened, c.alloc.Epoch())
}

func checkView(name string, opened, current Epoch) {
	if opened != current {
		panic(fmt.Sprintf("genid: %s view opened at epoch %s used at epoch %s", name, opened, current))
	}
}
