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

// Package minitable contains the compact runtime descriptors that drive
// minipb's generic field accessors.
//
// A [Field] is everything the accessor layer needs to know about one field of
// one message type: where its bytes live, how wide they are, and how explicit
// presence is tracked for it. Descriptors are produced once per schema,
// treated as validated read-only inputs, and shared by every instance of
// their message type.
package minitable

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
)

// Flags are auxiliary properties of a field.
type Flags uint8

const (
	// FlagExtension marks a field that is stored in a message's extension
	// table rather than at a static offset. A Field with this flag must be
	// embedded in an [Extension].
	FlagExtension Flags = 1 << iota

	// FlagMap marks a map-shaped field. Its storage is an 8-byte handle to
	// a map container. Map fields are never extensions.
	FlagMap
)

// Field is an optimized descriptor for a message field.
//
// All accessor functions are universal over a *Field. They look branchy, but
// when the descriptor reaching them is a compile-time constant (as it is in
// generated accessors), every branch folds away and what remains is the code
// a hand-written accessor would have produced.
type Field struct {
	// Byte offset of this field's storage within the message's data region.
	// Meaningless if FlagExtension is set.
	Offset uint32

	// The field number. For oneof members this doubles as the sentinel
	// written into the group's discriminant while this field is active.
	Number protowire.Number

	// The physical shape of the stored value.
	Rep Rep

	Flags Flags

	// How explicit presence is tracked, if at all.
	Presence Presence
}

// IsExtension returns whether this field lives in the extension table.
func (f *Field) IsExtension() bool {
	return f.Flags&FlagExtension != 0
}

// IsMap returns whether this field holds a map handle.
func (f *Field) IsMap() bool {
	return f.Flags&FlagMap != 0
}

// HasPresence returns whether this field has tracked presence.
func (f *Field) HasPresence() bool {
	return f.Presence.IsTracked()
}

// InOneof returns whether this field is a member of a oneof group.
func (f *Field) InOneof() bool {
	return f.Presence.InOneof()
}

// Extension returns the extension descriptor this field is part of.
//
// Calling this on a field without FlagExtension is a contract violation.
func (f *Field) Extension() *Extension {
	debug.Assert(f.IsExtension(), "Extension() on non-extension field %d", f.Number)
	// A Field with FlagExtension is always the first member of an
	// Extension, so this cast recovers the containing descriptor.
	return xunsafe.Cast[Extension](f)
}

// Format implements [fmt.Formatter].
func (f *Field) Format(s fmt.State, verb rune) {
	fmt.Fprintf(s, "%d@%#04x:%v:%v", f.Number, f.Offset, f.Rep, f.Presence)
}
