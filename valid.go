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
	"iter"
)

// Valid wraps a value whose ids were verified alive when the allocator was
// at a given epoch. Go has no borrow checker to keep a kill from happening
// while a proof is in use, so the proof carries the epoch instead: as long
// as the allocator is still at that epoch nothing has died and the proof
// holds. Consumers check this once per logical scope with Live or Check and
// then use Value freely.
//
// A Valid can only be produced by a Validator, by an allocator's Create and
// IDs, by Permanent for append-only arenas, or by propagating an existing proof
// with Map, Index, Lookup, Elements and Values.
type Valid[T any] struct {
	value T
	epoch Epoch
}

func makeValid[T any](value T, epoch Epoch) Valid[T] {
	return Valid[T]{value: value, epoch: epoch}
}

// Value returns the wrapped value without checking the proof.
func (v Valid[T]) Value() T {
	return v.value
}

// Epoch returns the epoch at which the proof was established.
func (v Valid[T]) Epoch() Epoch {
	return v.epoch
}

// Live reports whether the proof still holds against src, i.e. whether no
// kill has happened since it was established.
func (v Valid[T]) Live(src EpochSource) bool {
	return v.epoch == src.Epoch()
}

// Check returns the wrapped value, panicking if a kill at src has
// invalidated the proof.
func (v Valid[T]) Check(src EpochSource) T {
	if e := src.Epoch(); e != v.epoch {
		panic(fmt.Sprintf("genid: proof taken at epoch %s used at epoch %s", v.epoch, e))
	}
	return v.value
}

func (v Valid[T]) String() string {
	return fmt.Sprintf("valid(%v)", v.value)
}

// Permanent returns id as a proof. Entities of fixed arenas are never
// killed, so no check is needed.
func Permanent[A FixedArena](id ID[A]) Valid[ID[A]] {
	return makeValid(id, 0)
}

// Map applies f to the proven value. The result carries the same proof: f
// is expected to derive data from the value, not to kill anything.
func Map[T, U any](v Valid[T], f func(T) U) Valid[U] {
	return makeValid(f(v.value), v.epoch)
}

// Index returns element i of a proven slice as a proven value.
func Index[E any](v Valid[[]E], i int) Valid[E] {
	return makeValid(v.value[i], v.epoch)
}

// Lookup returns the element of a proven map stored under k.
func Lookup[K comparable, E any](v Valid[map[K]E], k K) (Valid[E], bool) {
	e, ok := v.value[k]
	if !ok {
		return Valid[E]{}, false
	}
	return makeValid(e, v.epoch), true
}

// Elements iterates a proven slice, yielding each element as a proven value
// without re-validating it.
func Elements[E any](v Valid[[]E]) iter.Seq2[int, Valid[E]] {
	return func(yield func(int, Valid[E]) bool) {
		for i, e := range v.value {
			if !yield(i, makeValid(e, v.epoch)) {
				return
			}
		}
	}
}

// Values iterates a proven sequence, yielding each element as a proven value.
func Values[E any](v Valid[iter.Seq[E]]) iter.Seq[Valid[E]] {
	return func(yield func(Valid[E]) bool) {
		for e := range v.value {
			if !yield(makeValid(e, v.epoch)) {
				return
			}
		}
	}
}

// MaybeValid unifies the ways code can hold a possibly-absent proven id: an
// Option (None, a plain proof, or a proof of a possibly-zero id) or a bare id
// of a Fixed arena.
type MaybeValid[A Arena] interface {
	TryValid() (Valid[ID[A]], bool)
}

// Option is an optional proven id. The zero Option is None.
type Option[A Arena] struct {
	valid Valid[ID[A]]
}

// None returns the empty Option.
func None[A Arena]() Option[A] {
	return Option[A]{}
}

// Some wraps a proof in an Option. If the proven id is zero the Option is
// None.
func Some[A Arena](v Valid[ID[A]]) Option[A] {
	return Option[A]{valid: v}
}

// Optional is Some under the name used when the proof covers a column of
// optional ids, where zero entries mean "no id".
func Optional[A Arena](v Valid[ID[A]]) Option[A] {
	return Some(v)
}

// TryValid implements MaybeValid.
func (o Option[A]) TryValid() (Valid[ID[A]], bool) {
	if o.valid.value.IsZero() {
		return Valid[ID[A]]{}, false
	}
	return o.valid, true
}

// IsNone reports whether the Option holds no id.
func (o Option[A]) IsNone() bool {
	return o.valid.value.IsZero()
}

var (
	_ MaybeValid[Dynamic] = Option[Dynamic]{}
	_ MaybeValid[Fixed]   = ID[Fixed]{}
)
