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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedAllocator(t *testing.T) {
	a := New[ships](WithCapacity(4))
	v0 := a.Create()
	v1 := a.Create()
	require.EqualValues(t, 0, v0.Value().Index())
	require.EqualValues(t, 1, v1.Value().Index())
	require.EqualValues(t, 2, a.Len())
	require.EqualValues(t, 2, a.Slots())

	require.True(t, a.Kill(v0.Value()))
	require.False(t, a.Kill(v0.Value()))
	require.False(t, a.IsAlive(v0.Value()))

	v2 := a.Create()
	require.EqualValues(t, 0, v2.Value().Index())
	require.EqualValues(t, 2, v2.Value().Generation())
	require.Equal(t, a.Epoch(), v2.Epoch())

	var ids []ID[ships]
	a.IDs(func(v Valid[ID[ships]]) bool {
		require.True(t, v.Live(a))
		ids = append(ids, v.Value())
		return true
	})
	require.Equal(t, []ID[ships]{v2.Value(), v1.Value()}, ids)

	a.Close()
	require.EqualValues(t, 0, a.Len())
}

func TestZeroTypedAllocator(t *testing.T) {
	var a Allocator[ships]
	id := a.Create().Value()
	require.Equal(t, makeID[ships](firstUntypedID(0)), id)
}

func TestFixedArenaKillPanics(t *testing.T) {
	a := New[planets]()
	id := a.Create().Value()
	require.Panics(t, func() { a.Kill(id) })
	require.Panics(t, func() { a.KillMultiple([]ID[planets]{id}) })
	require.True(t, a.IsAlive(id))
	require.EqualValues(t, 0, a.Epoch())
}

func TestReadOnlyView(t *testing.T) {
	a := New[ships]()
	x := a.Create().Value()
	y := a.Create().Value()

	view := a.ReadOnly()
	require.True(t, view.IsAlive(x))
	v, ok := view.Validate(y)
	require.True(t, ok)
	require.True(t, v.Live(view))
	require.EqualValues(t, 2, view.Len())
	view.Check()

	var n int
	view.IDs(func(Valid[ID[ships]]) bool {
		n++
		return true
	})
	require.EqualValues(t, 2, n)

	require.True(t, a.Kill(x))
	require.Panics(t, view.Check)
	require.False(t, view.IsAlive(x))
	require.Equal(t, a.Epoch(), view.Epoch())
}

func TestCreateOnlyView(t *testing.T) {
	a := New[ships]()
	before := a.Create()

	view := a.CreateOnly()
	created := view.Create()
	view.Create()
	view.Check()
	require.True(t, before.Live(view))
	require.True(t, created.Live(view))
	require.True(t, view.IsAlive(created.Value()))
	require.EqualValues(t, 3, view.Len())

	_, ok := view.Validate(before.Value())
	require.True(t, ok)

	var ids []ID[ships]
	view.IDs(func(v Valid[ID[ships]]) bool {
		ids = append(ids, v.Value())
		return true
	})
	require.Len(t, ids, 3)

	require.True(t, a.Kill(before.Value()))
	require.Panics(t, view.Check)
	require.False(t, created.Live(view))
}

// checkAll validates ids against any Validator.
func checkAll[A Arena](v Validator[A], ids []ID[A]) int {
	var n int
	for _, id := range ids {
		if p, ok := v.Validate(id); ok && p.Live(v) {
			n++
		}
	}
	return n
}

func TestValidator(t *testing.T) {
	a := New[ships]()
	ids := []ID[ships]{a.Create().Value(), a.Create().Value(), a.Create().Value()}
	require.True(t, a.Kill(ids[1]))

	require.EqualValues(t, 2, checkAll[ships](a, ids))
	require.EqualValues(t, 2, checkAll[ships](a.ReadOnly(), ids))
	require.EqualValues(t, 2, checkAll[ships](a.CreateOnly(), ids))
}
