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

// Package slice provides growable slices that live on an arena.
package slice

import (
	"fmt"
	"unsafe"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/internal/xunsafe/layout"
	"github.com/diegobes/minipb/mem"
)

// Slice is a slice that points into an arena.
//
// Unlike an ordinary slice, it does not contain pointers; in order to work
// correctly, it must be kept alive no longer than its owning arena.
type Slice[T any] struct {
	ptr      *T
	len, cap uint32
}

// Addr is like [Slice], but its pointer is replaced with an address, so
// loading/storing values of this type issues no write barriers.
type Addr[T any] struct {
	ptr      xunsafe.Addr[T]
	len, cap uint32
}

// FromParts assembles a slice from its raw components.
func FromParts[T any](ptr *T, len, cap uint32) Slice[T] {
	return Slice[T]{ptr, len, cap}
}

// Addr converts this slice into an address slice.
//
// See the caveats of [xunsafe.AddrOf].
func (s Slice[T]) Addr() Addr[T] {
	return Addr[T]{xunsafe.AddrOf(s.ptr), s.len, s.cap}
}

// AssertValid converts this address slice into a true [Slice].
//
// See the caveats of [xunsafe.Addr.AssertValid].
func (s Addr[T]) AssertValid() Slice[T] {
	return Slice[T]{s.ptr.AssertValid(), s.len, s.cap}
}

// Make allocates a slice of the given length.
//
// Returns ok == false if the arena is exhausted.
func Make[T any](a *mem.Arena, n int) (Slice[T], bool) {
	cap := sliceLayout[T](n)
	p := a.Alloc(cap)
	if p == nil {
		return Slice[T]{}, false
	}

	size := layout.Size[T]()
	return FromParts(xunsafe.Cast[T](p), uint32(n), uint32(cap/size)), true
}

// Ptr returns this slice's pointer value.
func (s Slice[T]) Ptr() *T {
	return s.ptr
}

// Len returns this slice's length.
func (s Slice[_]) Len() int {
	return int(s.len)
}

// SetLen directly sets the length of s.
func (s Slice[T]) SetLen(n int) Slice[T] {
	if debug.Enabled && n > int(s.cap) {
		panic(fmt.Errorf("runtime error: SetLen(%v) with Cap() = %v", n, s.cap))
	}

	s.len = uint32(n)
	return s
}

// Cap returns this slice's capacity.
func (s Slice[_]) Cap() int {
	return int(s.cap)
}

// At returns a pointer to the value at the given index.
func (s Slice[T]) At(n int) *T {
	if debug.Enabled {
		return &s.Raw()[n]
	}
	return xunsafe.Add(s.ptr, n)
}

// Load loads a value at the given index.
func (s Slice[T]) Load(n int) T {
	return *s.At(n)
}

// Store stores a value at the given index.
func (s Slice[T]) Store(n int, v T) {
	*s.At(n) = v
}

// Raw returns the underlying slice for this slice.
//
// The return value of this function must never escape outside of this module.
func (s Slice[T]) Raw() []T {
	if s.ptr == nil {
		return nil
	}
	return unsafe.Slice(s.ptr, s.cap)[:s.len]
}

// Rest returns the portion of s between the length and the capacity.
//
// The return value of this function must never escape outside of this module.
func (s Slice[T]) Rest() []T {
	return unsafe.Slice(xunsafe.Add(s.ptr, s.len), s.cap-s.len)
}

// AppendOne appends one element to a slice, reallocating on the given arena
// if necessary.
//
// Returns ok == false, and leaves the slice untouched, if the arena is
// exhausted.
func (s Slice[T]) AppendOne(a *mem.Arena, elem T) (Slice[T], bool) {
	a.Log("append", "%p[%d:%d], %T x 1", s.ptr, s.len, s.cap, elem)

	if s.Len() == s.Cap() {
		var ok bool
		s, ok = s.Grow(a, 1)
		if !ok {
			return s, false
		}
	}

	xunsafe.Store(s.ptr, s.len, elem)
	s.len++
	return s, true
}

// Grow extends the capacity of this slice by at least n elements.
//
// The old allocation is abandoned in place, never compacted or reclaimed;
// this is the arena trade-off that makes growth O(1) amortized.
func (s Slice[T]) Grow(a *mem.Arena, n int) (Slice[T], bool) {
	size := layout.Size[T]()

	if s.ptr == nil {
		cap := sliceLayout[T](n)
		p := a.Alloc(cap)
		if p == nil {
			return s, false
		}
		s.ptr = xunsafe.Cast[T](p)
		s.cap = uint32(cap) / uint32(size)
		return s, true
	}

	oldSize := sliceLayout[T](s.Cap())
	newSize := sliceLayout[T](s.Cap() + n)

	p := a.Realloc(newSize, oldSize, xunsafe.Cast[byte](s.ptr))
	if p == nil {
		return s, false
	}
	s.ptr = xunsafe.Cast[T](p)
	s.cap = uint32(newSize) / uint32(size)
	return s, true
}

func sliceLayout[T any](n int) (size int) {
	size = layout.Size[T]()
	if layout.Align[T]() > mem.Align {
		panic("minipb: over-aligned object")
	}
	return mem.SuggestSize(size * n)
}

// Format implements [fmt.Formatter].
func (s Slice[T]) Format(state fmt.State, v rune) {
	if s.ptr == nil && (s.Len() != 0 || s.Cap() != 0) {
		fmt.Fprintf(state, "%v", s.Addr())
		return
	}

	fmt.Fprintf(state, fmt.FormatString(state, v), s.Raw())
}

// String implements [fmt.Stringer].
func (s Addr[T]) String() string {
	return fmt.Sprintf("%v[%d:%d]", s.ptr, s.len, s.cap)
}
