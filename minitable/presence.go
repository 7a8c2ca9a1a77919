// Copyright 2025-2026 The minipb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package minitable

import (
	"fmt"

	"github.com/diegobes/minipb/internal/debug"
)

// PresenceKind says how explicit presence is tracked for a field.
type PresenceKind uint8

const (
	// PresenceNone is for fields with implicit presence: the field is
	// "set" whenever its storage is nonzero, and no bookkeeping exists
	// for it.
	PresenceNone PresenceKind = iota

	// PresenceHasbit is for fields tracked by one bit in the message's
	// has-bit words.
	PresenceHasbit

	// PresenceOneof is for fields in a oneof group, tracked by a shared
	// 32-bit discriminant holding the active member's field number.
	PresenceOneof
)

// Presence describes how explicit presence is tracked for one field.
//
// The zero value means no tracked presence.
type Presence struct {
	kind PresenceKind

	// For PresenceHasbit, a bit index into the has-bit words at the head of
	// the message's data region. For PresenceOneof, the byte offset of the
	// group's discriminant within the data region.
	pos uint32
}

// Hasbit returns a Presence tracked by the has-bit with the given index.
func Hasbit(index uint32) Presence {
	return Presence{PresenceHasbit, index}
}

// OneofCase returns a Presence tracked by a oneof discriminant at the given
// byte offset.
func OneofCase(offset uint32) Presence {
	return Presence{PresenceOneof, offset}
}

// Kind returns the kind of presence tracking.
func (p Presence) Kind() PresenceKind {
	return p.kind
}

// IsTracked returns whether this field has any explicit presence.
func (p Presence) IsTracked() bool {
	return p.kind != PresenceNone
}

// InOneof returns whether this field is a member of a oneof group.
func (p Presence) InOneof() bool {
	return p.kind == PresenceOneof
}

// HasbitIndex returns the index of this field's has-bit.
func (p Presence) HasbitIndex() uint32 {
	debug.Assert(p.kind == PresenceHasbit, "HasbitIndex on %v", p)
	return p.pos
}

// CaseOffset returns the byte offset of this field's oneof discriminant.
func (p Presence) CaseOffset() uint32 {
	debug.Assert(p.kind == PresenceOneof, "CaseOffset on %v", p)
	return p.pos
}

// Format implements [fmt.Formatter].
func (p Presence) Format(s fmt.State, verb rune) {
	switch p.kind {
	case PresenceNone:
		fmt.Fprint(s, "none")
	case PresenceHasbit:
		fmt.Fprintf(s, "hasbit:%d", p.pos)
	case PresenceOneof:
		fmt.Fprintf(s, "oneof:%#04x", p.pos)
	default:
		fmt.Fprintf(s, "Presence(%d:%d)", p.kind, p.pos)
	}
}
