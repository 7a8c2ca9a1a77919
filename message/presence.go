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

package message

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/minitable"
)

// Has reports whether f is explicitly present in m.
//
// Extension fields are present exactly when an entry for them exists. For
// all other fields, querying one without tracked presence is a contract
// violation: the has-bits and oneof discriminants are the only source of
// truth, and such a field has neither.
func (m *Message) Has(f *minitable.Field) bool {
	if f.IsExtension() {
		return m.findExtension(f.Extension()) != nil
	}
	return m.hasNonExtension(f)
}

// WhichOneof returns the field number of the active member of f's oneof
// group, or 0 if no member is set.
func (m *Message) WhichOneof(f *minitable.Field) protowire.Number {
	debug.Assert(f.InOneof(), "WhichOneof on non-oneof field %v", f)
	return protowire.Number(*m.oneofCasePtr(f))
}

func (m *Message) hasNonExtension(f *minitable.Field) bool {
	debug.Assert(f.HasPresence(), "presence query on presence-less field %v", f)
	if f.InOneof() {
		return *m.oneofCasePtr(f) == uint32(f.Number)
	}
	return m.getBit(f.Presence.HasbitIndex())
}

// setPresence records f as present: its has-bit if it has one, or its oneof
// discriminant if it is a oneof member. No-op for implicit-presence fields.
func (m *Message) setPresence(f *minitable.Field) {
	switch f.Presence.Kind() {
	case minitable.PresenceHasbit:
		m.setBit(f.Presence.HasbitIndex())
	case minitable.PresenceOneof:
		*m.oneofCasePtr(f) = uint32(f.Number)
	}
}

// clearPresence removes f's explicit presence, reporting whether f's storage
// may be zeroed. An inactive oneof member owns neither the discriminant nor
// the group's shared storage, so clearing it must touch nothing at all.
func (m *Message) clearPresence(f *minitable.Field) bool {
	switch f.Presence.Kind() {
	case minitable.PresenceHasbit:
		m.clearBit(f.Presence.HasbitIndex())
	case minitable.PresenceOneof:
		c := m.oneofCasePtr(f)
		if *c != uint32(f.Number) {
			return false
		}
		*c = 0
	}
	return true
}

// oneofCasePtr returns a pointer to the discriminant of f's oneof group.
func (m *Message) oneofCasePtr(f *minitable.Field) *uint32 {
	off := f.Presence.CaseOffset()
	debug.Assert(int(off)+4 <= int(m.ty.Size),
		"oneof discriminant at %#04x overruns data region of %d bytes", off, m.ty.Size)
	return xunsafe.ByteAdd[uint32](m.data(), off)
}
