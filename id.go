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
	"cmp"
	"fmt"
)

const (
	genBits = 32
	genMask = 1<<genBits - 1
)

// UntypedID is an (index, generation) pair packed into 64 bits: the index in
// the high 32 bits and the generation in the low 32 bits. Since generations
// are never zero a valid UntypedID is never zero, which leaves the zero
// value free to mean "no id".
//
// Comparing packed values orders ids lexicographically by (index,
// generation).
type UntypedID uint64

func makeUntypedID(index uint32, gen Generation) UntypedID {
	return UntypedID(uint64(index)<<genBits | uint64(gen))
}

func firstUntypedID(index uint32) UntypedID {
	return makeUntypedID(index, FirstGeneration)
}

// Index returns the slot index of the id.
func (id UntypedID) Index() uint32 {
	return uint32(uint64(id) >> genBits)
}

// Generation returns the generation of the id. It is zero only for the zero
// UntypedID.
func (id UntypedID) Generation() Generation {
	return Generation(uint64(id) & genMask)
}

// IsZero reports whether id is the "no id" value.
func (id UntypedID) IsZero() bool {
	return id == 0
}

// Bits returns the packed representation of id.
func (id UntypedID) Bits() uint64 {
	return uint64(id)
}

// Compare returns -1, 0 or +1 depending on whether id sorts before, equal
// to, or after other.
func (id UntypedID) Compare(other UntypedID) int {
	return cmp.Compare(id, other)
}

// Less reports whether id sorts before other.
func (id UntypedID) Less(other UntypedID) bool {
	return id < other
}

func (id UntypedID) String() string {
	if id.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d%s", id.Index(), id.Generation())
}

// ID is an UntypedID tagged with the arena type A. IDs of different arenas
// are distinct types even though they share a representation, so an id of
// one table cannot be passed where an id of another is expected. The zero ID
// is the "no id" value.
type ID[A Arena] struct {
	untyped UntypedID
}

func makeID[A Arena](id UntypedID) ID[A] {
	return ID[A]{untyped: id}
}

// Untyped returns the arena-erased id.
func (id ID[A]) Untyped() UntypedID {
	return id.untyped
}

// Index returns the slot index of the id.
func (id ID[A]) Index() uint32 {
	return id.untyped.Index()
}

// Generation returns the generation of the id.
func (id ID[A]) Generation() Generation {
	return id.untyped.Generation()
}

// IsZero reports whether id is the "no id" value.
func (id ID[A]) IsZero() bool {
	return id.untyped.IsZero()
}

// Compare orders ids by (index, generation).
func (id ID[A]) Compare(other ID[A]) int {
	return id.untyped.Compare(other.untyped)
}

// Less reports whether id sorts before other.
func (id ID[A]) Less(other ID[A]) bool {
	return id.untyped < other.untyped
}

// Kind returns the capability of the id's arena.
func (id ID[A]) Kind() Kind {
	return KindOf[A]()
}

func (id ID[A]) String() string {
	return id.untyped.String()
}

// TryValid implements MaybeValid. Entities of a Fixed arena are never killed,
// so a non-zero id is returned as a proof without consulting an allocator.
// Calling TryValid on an id of a Dynamic arena is a programming error and
// panics: use a Validator instead.
func (id ID[A]) TryValid() (Valid[ID[A]], bool) {
	if KindOf[A]() != KindFixed {
		panic(fmt.Sprintf("genid: bare id %s of a %s arena used as a validity proof",
			id, KindOf[A]()))
	}
	if id.IsZero() {
		return Valid[ID[A]]{}, false
	}
	return makeValid(id, 0), true
}

// CompareIDs is ID.Compare in a form usable with slices.SortFunc.
func CompareIDs[A Arena](a, b ID[A]) int {
	return a.Compare(b)
}
