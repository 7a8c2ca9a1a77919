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

// Package message implements minipb's message instances and the universal
// accessors over them.
//
// A message instance is a small header followed, in the same arena
// allocation, by its data region: the has-bit words, then field storage and
// oneof discriminants at the offsets recorded in the type's [minitable.Type].
// A single set of get/set/has/clear functions serves every field of every
// type by consulting the field's descriptor; when a descriptor is a
// compile-time constant the descriptor branches fold away.
//
// Instances are not synchronized. Concurrent reads of an instance nobody is
// mutating are fine; everything else is the caller's lock to take.
package message

import (
	"unsafe"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/internal/xunsafe/layout"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/mem/slice"
	"github.com/diegobes/minipb/minitable"
)

// Message is a message instance.
//
// A *Message lives on some arena, and all of its dynamic state does too.
// Because arena chunks carry a trailer pointer to their arena, holding a
// *Message keeps the whole arena alive; the GC never scans the instance
// itself.
type Message struct {
	_ xunsafe.NoCopy

	// The static layout for this instance. Kept alive via the arena's keep
	// list, since this header lives in memory the GC does not scan.
	ty *minitable.Type

	// The extension table. Zero until the first extension write.
	exts slice.Addr[extEntry]

	// The data region follows this header: HasbitWords 32-bit words of
	// has-bits, then field storage at the descriptors' offsets.
}

// New creates a new, empty instance of the given type on a.
//
// All has-bits start clear, every field's storage starts zeroed, and no
// extension table exists. Returns nil if the arena is exhausted.
func New(t *minitable.Type, a *mem.Arena) *Message {
	size := layout.Size[Message]() + int(t.Size)
	p := a.Alloc(size)
	if p == nil {
		return nil
	}
	// The region must start zeroed: the read path skips presence checks for
	// zero-default fields on the strength of it.
	xunsafe.Clear(p, size)

	m := xunsafe.Cast[Message](p)
	xunsafe.StoreNoWB(&m.ty, t)
	a.KeepAlive(unsafe.Pointer(t))
	return m
}

// Type returns the static layout of this instance.
func (m *Message) Type() *minitable.Type {
	return m.ty
}

// data returns the base of this instance's data region.
func (m *Message) data() *byte {
	return xunsafe.Beyond[byte](m).Get(0)
}

// fieldPtr returns a pointer to f's storage within the data region.
func (m *Message) fieldPtr(f *minitable.Field) *byte {
	debug.Assert(!f.IsExtension(), "static offset of extension field %v", f)
	debug.Assert(int(f.Offset)+f.Rep.Size() <= int(m.ty.Size),
		"field %v overruns data region of %d bytes", f, m.ty.Size)
	return xunsafe.ByteAdd[byte](m.data(), f.Offset)
}

// getBit gets the value of the nth bit of this instance's has-bit words.
func (m *Message) getBit(n uint32) bool {
	debug.Assert(n < m.ty.HasbitWords*32, "has-bit %d out of range", n)
	words := xunsafe.Cast[uint32](m.data())
	return xunsafe.Load(words, n/32)&(1<<(n%32)) != 0
}

// setBit sets the nth bit of this instance's has-bit words.
func (m *Message) setBit(n uint32) {
	debug.Assert(n < m.ty.HasbitWords*32, "has-bit %d out of range", n)
	words := xunsafe.Cast[uint32](m.data())
	*xunsafe.Add(words, n/32) |= 1 << (n % 32)
}

// clearBit clears the nth bit of this instance's has-bit words.
func (m *Message) clearBit(n uint32) {
	debug.Assert(n < m.ty.HasbitWords*32, "has-bit %d out of range", n)
	words := xunsafe.Cast[uint32](m.data())
	*xunsafe.Add(words, n/32) &^= 1 << (n % 32)
}
