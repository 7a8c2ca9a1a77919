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
	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/internal/xunsafe/layout"
	"github.com/diegobes/minipb/mapx"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/minitable"
)

// Get extracts f's value from m, or def if f is not set.
//
// T must match f's representation class exactly; Get moves raw bytes and
// performs no conversions. Works on extensions and non-extensions alike.
func Get[T any](m *Message, f *minitable.Field, def T) T {
	debug.Assert(layout.Size[T]() == f.Rep.Size(),
		"%d-byte value for field %v", layout.Size[T](), f)

	var out T
	m.getField(f, xunsafe.Cast[byte](&def), xunsafe.Cast[byte](&out))
	return out
}

// Set stores v as f's value in m, recording presence.
//
// Returns false, leaving m untouched, only if f is an extension and the
// arena is exhausted; for non-extension fields a may be nil and the return
// value is always true.
func Set[T any](m *Message, f *minitable.Field, v T, a *mem.Arena) bool {
	debug.Assert(layout.Size[T]() == f.Rep.Size(),
		"%d-byte value for field %v", layout.Size[T](), f)

	return m.setField(f, xunsafe.Cast[byte](&v), a)
}

// Clear removes f from m: presence is cleared and the stored value reverts
// to the default. Clearing an already-clear field is a no-op with identical
// observable state.
func (m *Message) Clear(f *minitable.Field) {
	if f.IsExtension() {
		m.removeExtension(f.Extension())
		return
	}

	if m.clearPresence(f) {
		// Zero the storage even when presence was already clear. The read
		// path skips the presence check for zero-default fields entirely,
		// which is only sound if unset storage always holds zeros.
		xunsafe.Clear(m.fieldPtr(f), f.Rep.Size())
	}
}

// MutableMap returns the map container stored in f, creating an empty one on
// a if the field holds no map yet.
//
// f must be map-shaped. Returns nil only if creating the map exhausts the
// arena; otherwise repeated calls return the same handle.
func (m *Message) MutableMap(f *minitable.Field, keySize, valSize int, a *mem.Arena) *mapx.Map {
	debug.Assert(f.IsMap(), "map operation on non-map field %v", f)
	debug.Assert(f.Rep == minitable.Rep8Byte, "map field %v with representation %v", f, f.Rep)

	var def, stored xunsafe.Addr[mapx.Map]
	m.getField(f, xunsafe.Cast[byte](&def), xunsafe.Cast[byte](&stored))

	mp := stored.AssertValid()
	debug.Assert(mp != mapx.Empty, "map field %v holds the immutable empty map", f)
	if mp == nil {
		mp = mapx.New(keySize, valSize, a)
		if mp == nil {
			return nil
		}
		// The handle goes in through the ordinary non-extension path; maps
		// are never extensions.
		addr := xunsafe.AddrOf(mp)
		m.setField(f, xunsafe.Cast[byte](&addr), nil)
	}
	return mp
}

// getField implements Get over raw value buffers.
func (m *Message) getField(f *minitable.Field, def, out *byte) {
	if f.IsExtension() {
		if e := m.findExtension(f.Extension()); e != nil {
			copyField(out, e.data(), f.Rep)
			return
		}
		copyField(out, def, f.Rep)
		return
	}

	// Only oneof members and fields with a nonzero default need their
	// presence consulted on read. For everything else unset storage already
	// holds the default, because Clear zeroes unconditionally and fresh
	// instances start zeroed; when the descriptor is a constant with a zero
	// default this whole branch folds to a plain load.
	if (f.InOneof() || isNonZero(def, f.Rep)) && !m.hasNonExtension(f) {
		copyField(out, def, f.Rep)
		return
	}
	copyField(out, m.fieldPtr(f), f.Rep)
}

// setField implements Set over a raw value buffer.
func (m *Message) setField(f *minitable.Field, val *byte, a *mem.Arena) bool {
	if f.IsExtension() {
		debug.Assert(a != nil, "nil arena for extension write to %v", f)
		e := m.getOrCreateExtension(f.Extension(), a)
		if e == nil {
			return false
		}
		copyField(e.data(), val, f.Rep)
		return true
	}

	m.setPresence(f)
	copyField(m.fieldPtr(f), val, f.Rep)
	return true
}
