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

func rangeIDs(r UntypedRange) []UntypedID {
	var ids []UntypedID
	r.All(func(id UntypedID) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func TestRangeLen(t *testing.T) {
	r := UntypedRange{start: 3, end: 7}
	require.EqualValues(t, 4, r.Len())
	require.False(t, r.Empty())
	require.Equal(t, "[3,7)", r.String())

	var zero UntypedRange
	require.True(t, zero.Empty())
	require.EqualValues(t, 0, zero.Len())
}

func TestRangeExtend(t *testing.T) {
	testCases := []struct {
		r        UntypedRange
		index    uint32
		expected UntypedRange
	}{
		{UntypedRange{}, 0, UntypedRange{0, 1}},
		{UntypedRange{}, 5, UntypedRange{5, 6}},
		{UntypedRange{2, 4}, 4, UntypedRange{2, 5}},
		{UntypedRange{2, 4}, 1, UntypedRange{1, 4}},
		{UntypedRange{1, 1}, 1, UntypedRange{1, 2}},
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			r := c.r
			r.Extend(firstUntypedID(c.index))
			require.Equal(t, c.expected, r)
		})
	}
}

func TestRangeExtendPanics(t *testing.T) {
	r := UntypedRange{start: 2, end: 4}
	require.Panics(t, func() { r.Extend(firstUntypedID(6)) }, "gap after end")
	require.Panics(t, func() { r.Extend(firstUntypedID(0)) }, "gap before start")
	require.Panics(t, func() { r.Extend(firstUntypedID(3)) }, "inside")
	require.Panics(t, func() { r.Extend(makeUntypedID(4, 2)) }, "second generation")
	require.Equal(t, UntypedRange{start: 2, end: 4}, r)

	require.Panics(t, func() { UntypedRangeOf(makeUntypedID(1, 3)) })
}

func TestRangePosition(t *testing.T) {
	r := UntypedRange{start: 4, end: 7}
	testCases := []struct {
		index    uint32
		offset   int
		expected bool
	}{
		{3, 0, false},
		{4, 0, true},
		{5, 1, true},
		{6, 2, true},
		{7, 0, false},
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			id := firstUntypedID(c.index)
			offset, ok := r.Position(id)
			require.Equal(t, c.expected, ok)
			require.Equal(t, c.offset, offset)
			require.Equal(t, c.expected, r.Contains(id))
		})
	}
}

func TestRangeAll(t *testing.T) {
	r := UntypedRangeOf(firstUntypedID(2))
	r.Extend(firstUntypedID(3))
	r.Extend(firstUntypedID(1))
	require.Equal(t, []UntypedID{
		firstUntypedID(1),
		firstUntypedID(2),
		firstUntypedID(3),
	}, rangeIDs(r))

	var n int
	r.All(func(UntypedID) bool {
		n++
		return false
	})
	require.EqualValues(t, 1, n)
}

func TestTypedRange(t *testing.T) {
	a := New[planets]()
	first := a.Create().Value()
	r := CreateRange(a, 3)
	require.EqualValues(t, 1, r.Start())
	require.EqualValues(t, 4, r.End())
	require.EqualValues(t, 3, r.Len())
	require.False(t, r.Contains(first))

	var ids []ID[planets]
	r.All(func(id ID[planets]) bool {
		ids = append(ids, id)
		return true
	})
	require.Len(t, ids, 3)
	for i, id := range ids {
		require.True(t, a.IsAlive(id))
		offset, ok := r.Position(id)
		require.True(t, ok)
		require.Equal(t, i, offset)
	}

	grown := RangeOf(first)
	for _, id := range ids {
		grown.Extend(id)
	}
	require.Equal(t, "[0,4)", grown.String())
	require.Equal(t, UntypedRange{start: 0, end: 4}, grown.Untyped())
	require.Panics(t, func() { grown.Extend(first) })
}

func TestCounter(t *testing.T) {
	var c UntypedCounter
	require.Equal(t, firstUntypedID(0), c.Next())
	require.Equal(t, firstUntypedID(1), c.Next())

	r := c.Take(3)
	require.Equal(t, UntypedRange{start: 2, end: 5}, r)
	require.True(t, c.Take(0).Empty())
	require.EqualValues(t, 5, c.Len())
	require.Panics(t, func() { c.Take(-1) })

	var typed Counter[planets]
	require.Equal(t, makeID[planets](firstUntypedID(0)), typed.Next())
	tr := typed.Take(2)
	require.EqualValues(t, 1, tr.Start())
	require.EqualValues(t, 3, tr.End())
	require.EqualValues(t, 3, typed.Len())
}
