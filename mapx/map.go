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

// Package mapx implements the arena-backed map container that map-shaped
// message fields hold a handle to.
//
// Keys and values are raw byte strings of a fixed width chosen at creation
// time; the message layer copies field values in and out by representation
// class, so the container itself is oblivious to logical types. Iteration
// and removal are the business of layers above this one.
package mapx

import (
	"unsafe"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/mem"
)

// Map is an open-addressed hash table living entirely on an arena.
//
// A *Map is the opaque handle stored in a map-shaped field; nil is the
// distinguished "no map" sentinel.
type Map struct {
	_ xunsafe.NoCopy

	keySize, valSize uint32

	len uint32
	cap uint32 // Slot count; always a power of 2, or 0 before first insert.

	// The slot region: cap control bytes, then cap entries of
	// keySize+valSize bytes each. An address, not a pointer, because this
	// struct lives in arena memory the GC does not scan.
	slots xunsafe.Addr[byte]
}

const (
	ctrlEmpty = 0
	ctrlFull  = 1
)

// New creates a new empty map for the given key and value widths.
//
// The map, and everything it ever allocates, lives on a. Returns nil if the
// arena is exhausted.
func New(keySize, valSize int, a *mem.Arena) *Map {
	p := a.Alloc(int(unsafe.Sizeof(Map{})))
	if p == nil {
		return nil
	}

	m := xunsafe.Cast[Map](p)
	m.keySize = uint32(keySize)
	m.valSize = uint32(valSize)
	return m
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	return int(m.len)
}

// KeySize returns the fixed width of this map's keys.
func (m *Map) KeySize() int { return int(m.keySize) }

// ValueSize returns the fixed width of this map's values.
func (m *Map) ValueSize() int { return int(m.valSize) }

// Lookup finds the value stored for key.
//
// The returned bytes alias the map's storage and are invalidated by the next
// Insert. Returns nil if the key is absent.
func (m *Map) Lookup(key []byte) []byte {
	debug.Assert(len(key) == int(m.keySize), "key width %d, want %d", len(key), m.keySize)

	if m.cap == 0 {
		return nil
	}

	mask := m.cap - 1
	i := uint32(fxhash(0).bytes(key)) & mask
	for {
		switch m.ctrl(i) {
		case ctrlEmpty:
			return nil
		case ctrlFull:
			if string(m.key(i)) == string(key) {
				return m.value(i)
			}
		}
		i = (i + 1) & mask
	}
}

// Insert stores val for key, overwriting any previous value.
//
// Returns false, leaving the map untouched, if growing the table would
// exhaust the arena. Inserting into [Empty] panics: the singleton is
// immutable.
func (m *Map) Insert(key, val []byte, a *mem.Arena) bool {
	if m == Empty {
		panic(debug.Unsupported())
	}
	debug.Assert(len(key) == int(m.keySize), "key width %d, want %d", len(key), m.keySize)
	debug.Assert(len(val) == int(m.valSize), "value width %d, want %d", len(val), m.valSize)

	// Grow at 3/4 load, or on first insert.
	if m.cap == 0 || m.len+1 > m.cap-m.cap/4 {
		if !m.grow(a) {
			return false
		}
	}

	mask := m.cap - 1
	i := uint32(fxhash(0).bytes(key)) & mask
	for {
		switch m.ctrl(i) {
		case ctrlEmpty:
			m.setCtrl(i, ctrlFull)
			copy(m.key(i), key)
			copy(m.value(i), val)
			m.len++
			return true
		case ctrlFull:
			if string(m.key(i)) == string(key) {
				copy(m.value(i), val)
				return true
			}
		}
		i = (i + 1) & mask
	}
}

// grow rehashes into a table twice the size. The old slot region is
// abandoned on the arena, never freed.
func (m *Map) grow(a *mem.Arena) bool {
	oldCap := m.cap
	oldSlots := m.slots

	newCap := max(8, oldCap*2)
	p := a.Alloc(int(newCap) * (1 + int(m.keySize) + int(m.valSize)))
	if p == nil {
		return false
	}

	m.cap = newCap
	m.slots = xunsafe.AddrOf(p)
	m.len = 0

	if oldCap == 0 {
		return true
	}

	stride := int(m.keySize) + int(m.valSize)
	mask := newCap - 1
	for i := uint32(0); i < oldCap; i++ {
		if *oldSlots.ByteAdd(int(i)).AssertValid() != ctrlFull {
			continue
		}
		entry := oldSlots.ByteAdd(int(oldCap) + int(i)*stride).AssertValid()
		k := unsafe.Slice(entry, m.keySize)
		v := unsafe.Slice(xunsafe.Add(entry, m.keySize), m.valSize)

		j := uint32(fxhash(0).bytes(k)) & mask
		for m.ctrl(j) == ctrlFull {
			j = (j + 1) & mask
		}
		m.setCtrl(j, ctrlFull)
		copy(m.key(j), k)
		copy(m.value(j), v)
		m.len++
	}
	return true
}

func (m *Map) ctrl(i uint32) byte {
	return *m.slots.ByteAdd(int(i)).AssertValid()
}

func (m *Map) setCtrl(i uint32, c byte) {
	*m.slots.ByteAdd(int(i)).AssertValid() = c
}

// entry returns the byte offset of the ith entry within the slot region.
func (m *Map) entry(i uint32) int {
	return int(m.cap) + int(i)*(int(m.keySize)+int(m.valSize))
}

func (m *Map) key(i uint32) []byte {
	p := m.slots.ByteAdd(m.entry(i)).AssertValid()
	return unsafe.Slice(p, m.keySize)
}

func (m *Map) value(i uint32) []byte {
	p := m.slots.ByteAdd(m.entry(i) + int(m.keySize)).AssertValid()
	return unsafe.Slice(p, m.valSize)
}
