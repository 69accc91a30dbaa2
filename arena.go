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

// Kind is the capability of an arena: ids of a Fixed arena are alive for the
// lifetime of their allocator, ids of a Dynamic arena may be killed and their
// indices reused.
type Kind uint8

const (
	// KindFixed marks append-only arenas.
	KindFixed Kind = iota + 1
	// KindDynamic marks arenas whose entities can be killed.
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Arena is the constraint satisfied by arena marker types. It is sealed: the
// only way to satisfy it is to embed exactly one of Fixed or Dynamic in a
// struct type.
//
//	type Body struct{ genid.Fixed }
//	type Ship struct{ genid.Dynamic }
//
// A type embedding both has an ambiguous arenaKind selector, so it has no
// such method and fails to satisfy Arena at compile time.
type Arena interface {
	arenaKind() Kind
}

// FixedArena is satisfied by arena types that embed Fixed.
type FixedArena interface {
	Arena
	fixed()
}

// DynamicArena is satisfied by arena types that embed Dynamic.
type DynamicArena interface {
	Arena
	dynamic()
}

// Fixed is embedded by append-only arena marker types. Entities in a Fixed
// arena are never killed, so a bare ID of that arena can stand in wherever a
// validity proof is required.
type Fixed struct{}

func (Fixed) arenaKind() Kind { return KindFixed }
func (Fixed) fixed()          {}

// Dynamic is embedded by arena marker types whose entities can be killed and
// whose indices are recycled. A bare ID of a Dynamic arena carries no
// liveness guarantee.
type Dynamic struct{}

func (Dynamic) arenaKind() Kind { return KindDynamic }
func (Dynamic) dynamic()        {}

// KindOf returns the capability declared by the arena type A.
func KindOf[A Arena]() Kind {
	var a A
	return a.arenaKind()
}
