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

//go:build invariants

package genid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInvariants(t *testing.T) {
	setup := func() *UntypedAllocator {
		var a UntypedAllocator
		x := a.Create()
		a.Create()
		a.Create()
		a.Kill(x)
		a.checkInvariants()
		return &a
	}

	testCases := []struct {
		name    string
		corrupt func(a *UntypedAllocator)
	}{
		{"zero-generation", func(a *UntypedAllocator) { a.slots[1].gen = 0 }},
		{"alive-count", func(a *UntypedAllocator) { a.alive++ }},
		{"cyclic", func(a *UntypedAllocator) { a.slots[0].nextDead = 1 }},
		{"alive-on-free-list", func(a *UntypedAllocator) { a.freeHead = 2 }},
		{"beyond-table", func(a *UntypedAllocator) { a.freeHead = 9 }},
		{"unlinked-dead", func(a *UntypedAllocator) {
			a.slots[2].alive = false
			a.alive--
		}},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			a := setup()
			c.corrupt(a)
			require.Panics(t, a.checkInvariants)
		})
	}
}
