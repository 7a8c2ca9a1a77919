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
	"unsafe"

	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/mem/slice"
	"github.com/diegobes/minipb/minitable"
)

// extEntry is one slot of an instance's extension table: a descriptor
// identity and the raw stored value.
//
// The value bytes are wide enough for the largest representation class;
// copyField moves only the bytes the descriptor's class calls for. The
// descriptor is stored as an address because entries live in arena memory;
// getOrCreateExtension pins the descriptor to the arena.
type extEntry struct {
	desc xunsafe.Addr[minitable.Extension]
	raw  [2]uint64
}

// data returns a pointer to this entry's value storage.
func (e *extEntry) data() *byte {
	return xunsafe.Cast[byte](&e.raw)
}

// extensions returns the current extension table.
func (m *Message) extensions() slice.Slice[extEntry] {
	return m.exts.AssertValid()
}

// findExtension finds the entry for x, or nil if none exists.
//
// Entry order is not a semantic contract; this is a plain scan over a table
// that is almost always tiny.
func (m *Message) findExtension(x *minitable.Extension) *extEntry {
	s := m.extensions()
	for i := 0; i < s.Len(); i++ {
		e := s.At(i)
		if e.desc == xunsafe.AddrOf(x) {
			return e
		}
	}
	return nil
}

// getOrCreateExtension returns the entry for x, materializing the table
// and the entry as needed.
//
// Returns nil only if the arena is exhausted, in which case the instance is
// left exactly as it was.
func (m *Message) getOrCreateExtension(x *minitable.Extension, a *mem.Arena) *extEntry {
	if e := m.findExtension(x); e != nil {
		return e
	}

	s, ok := m.extensions().AppendOne(a, extEntry{desc: xunsafe.AddrOf(x)})
	if !ok {
		return nil
	}
	// The entry holds x by address only; tie x's lifetime to the arena.
	a.KeepAlive(unsafe.Pointer(x))

	m.exts = s.Addr()
	return s.At(s.Len() - 1)
}

// removeExtension logically removes x's entry, if present, by moving the
// last live entry into its slot and shrinking the live range by one. The
// allocation itself never shrinks, and remaining entries keep their values
// but not their positions.
func (m *Message) removeExtension(x *minitable.Extension) {
	e := m.findExtension(x)
	if e == nil {
		return
	}

	s := m.extensions()
	last := s.Len() - 1
	*e = s.Load(last)
	m.exts = s.SetLen(last).Addr()
}
