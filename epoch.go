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
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Epoch summarizes the ordered sequence of ids killed by an allocator. A new
// allocator starts at the zero Epoch and every successful kill folds the
// killed id into it. Two equal epochs taken from the same allocator mean no
// kill happened between the points they were taken; collisions are possible
// in principle but practically negligible.
type Epoch uint64

// Advance returns the epoch that follows e after id is killed. The fold is
// keyed by e, so it depends on the order of kills as well as on the ids.
func (e Epoch) Advance(id UntypedID) Epoch {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(e))
	binary.LittleEndian.PutUint64(buf[8:], uint64(id))
	return Epoch(xxhash.Sum64(buf[:]))
}

// Apply moves a consumer's copy of an epoch from before to after. The copy
// must equal before; anything else means the consumer missed a batch or is
// applying one twice, and Apply panics.
func (e *Epoch) Apply(before, after Epoch) {
	if *e != before {
		panic(fmt.Sprintf("genid: epoch %016x does not match batch precondition %016x", uint64(*e), uint64(before)))
	}
	*e = after
}

func (e Epoch) String() string {
	return fmt.Sprintf("%016x", uint64(e))
}

// EpochSource is implemented by anything that can report an allocator's
// current epoch: allocators, their views and snapshots.
type EpochSource interface {
	Epoch() Epoch
}

// UntypedKilled is the result of UntypedAllocator.KillMultiple: the ids that
// actually died, in the order they were killed, and the allocator's epoch
// before and after the batch.
type UntypedKilled struct {
	IDs    []UntypedID
	Before Epoch
	After  Epoch
}

// Len returns the number of ids killed by the batch.
func (k UntypedKilled) Len() int {
	return len(k.IDs)
}

// Empty reports whether the batch killed nothing. An empty batch always has
// Before == After.
func (k UntypedKilled) Empty() bool {
	return len(k.IDs) == 0
}

// Killed is the typed counterpart of UntypedKilled, returned by
// Allocator.KillMultiple. Downstream structures apply it to their Snapshot
// in one step.
type Killed[A Arena] struct {
	IDs    []ID[A]
	Before Epoch
	After  Epoch
}

// Len returns the number of ids killed by the batch.
func (k Killed[A]) Len() int {
	return len(k.IDs)
}

// Empty reports whether the batch killed nothing.
func (k Killed[A]) Empty() bool {
	return len(k.IDs) == 0
}

// Snapshot is a consumer's copy of an allocator's epoch. A structure that
// holds ids of arena A keeps a Snapshot and compares it with the allocator in
// O(1) to learn whether any of its ids may have died since it last synced.
//
// The zero Snapshot matches a freshly constructed allocator.
type Snapshot[A Arena] struct {
	epoch Epoch
}

// NewSnapshot returns a snapshot of src's current epoch.
func NewSnapshot[A Arena](src EpochSource) Snapshot[A] {
	return Snapshot[A]{epoch: src.Epoch()}
}

// Epoch returns the snapshot's epoch.
func (s *Snapshot[A]) Epoch() Epoch {
	return s.epoch
}

// Synced reports whether no kill has happened at src since the snapshot was
// taken or last updated.
func (s *Snapshot[A]) Synced(src EpochSource) bool {
	return s.epoch == src.Epoch()
}

// Advance folds a single killed id into the snapshot, mirroring what the
// allocator did when it killed id.
func (s *Snapshot[A]) Advance(id ID[A]) {
	s.epoch = s.epoch.Advance(id.untyped)
}

// Apply applies a kill batch. The snapshot must be at k.Before, otherwise
// Apply panics; afterwards it is at k.After.
func (s *Snapshot[A]) Apply(k Killed[A]) {
	s.epoch.Apply(k.Before, k.After)
}
