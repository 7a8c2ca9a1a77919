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

// Package mem provides a low-level, relatively unsafe arena allocation
// abstraction.
//
// # Design
//
// Arenas are designed to only return pointers to data with pointer-free shape.
// However, we would like to store pointers in this data, so that the arena can
// point to itself (and to no other memory).
//
// This means that to store such data, the pointers must either live for the
// same lifetime as the [Arena] value (such as by storing them alongside it) or
// must point back into the Arena.
//
// We ensure this by making it so that holding a pointer onto any memory
// allocated by an [Arena] will keep all memory reachable from it alive.
// We achieve this by having the shape of each chunk allocated for the arena
// contain a pointer to the arena as a trailer; each chunk thus must have the
// shape
//
//	type chunk struct {
//	  memory [N]uint64
//	  arena *Arena
//	}
//
// By holding a pointer into chunk.memory anywhere reachable by a GC root (such
// as in a local variable) the GC will mark the allocation for the whole chunk
// as live, and therefore mark the [*Arena] field as live. Tracing through
// chunk.arena.blocks will mark all the other chunks as alive.
//
// Memory not directly allocated by an arena can be tied to it using
// [Arena.KeepAlive]. Using this operation is very slow, since this is the one
// part of the arena that is not re-used when calling [Arena.Free].
//
// All allocation entry points report exhaustion by returning nil: an arena
// with a nonzero [Arena.Limit] refuses to acquire chunks beyond that total.
// Callers that hold messages on the arena treat a nil return as a recoverable
// allocation failure and leave their state untouched.
package mem

import (
	"unsafe"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/internal/xunsafe"
	"github.com/diegobes/minipb/internal/xunsafe/layout"
)

// Arena is an arena for holding values of any type which does not contain
// pointers.
//
// A zero Arena is empty and ready to use.
type Arena struct {
	_ xunsafe.NoCopy

	// Exported to allow for open-coding of Alloc() in some hot callsites,
	// because Go won't inline it >_>
	Next, End xunsafe.Addr[byte]
	Cap       int // Always a power of 2.

	// Limit is the maximum number of chunk bytes this arena will acquire
	// from Go's allocator; zero means no limit. When the limit would be
	// exceeded, allocation functions return nil.
	Limit int

	// Total chunk bytes acquired so far. Survives Free, because the chunks do.
	total int

	// Blocks of memory allocated by this arena. Indexed by their size log 2.
	blocks []*byte

	// Data to keep around for the GC to mark whenever it marks an arena.
	// Holding any pointer to the arena will keep anything here alive, too.
	keep []unsafe.Pointer
}

// Align is the alignment of all objects on the arena.
const Align = int(unsafe.Sizeof(uintptr(0)))

// New allocates a new value of type T on an arena.
//
// Returns nil if the arena is exhausted.
func New[T any](a *Arena, value T) *T {
	size := layout.Size[T]()
	if layout.Align[T]() > Align {
		panic("minipb: over-aligned object")
	}

	p := a.Alloc(size)
	if p == nil {
		return nil
	}

	q := xunsafe.Cast[T](p)
	*q = value
	return q
}

// KeepAlive ensures that v is not swept by the GC until all pointers into the
// arena go away.
func (a *Arena) KeepAlive(v unsafe.Pointer) {
	a.keep = append(a.keep, v)
}

// Alloc allocates memory with the given size.
//
// All memory is pointer-aligned. Returns nil if allocating would exceed this
// arena's limit.
func (a *Arena) Alloc(size int) *byte {
	// Align size to a pointer boundary.
	size += Align - 1
	size &^= Align - 1

	if a.Next.Add(size) > a.End {
		if !a.Grow(size) {
			return nil
		}
	}

	p := a.Next.AssertValid()
	a.Next = a.Next.Add(size)
	a.Log("alloc", "%v:%v, %d:%d", p, a.Next, size, Align)

	return p
}

// Free resets this arena to an "empty" state, allowing all memory allocated by
// it to be re-used.
//
// Although this can be used to amortize trips into Go's allocator, doing so
// trades off safety: any memory allocated by the arena must not be referenced
// after a call to Free.
func (a *Arena) Free() {
	a.Next, a.End, a.Cap = 0, 0, 0
	// Order doesn't matter here: nothing in a.blocks can point into a.keep,
	// because the only GC-visible pointers in a.blocks are pointers back to
	// a, the arena trailer.
	//
	// We set this to nil because clearing this will walk us right into an
	// unavoidable bulk write barrier. By writing nil, we only pay for a fast
	// single-pointer write barrier, and make cleaning up the handful of bytes
	// this throws out the GC's problem.
	a.keep = nil

	for log, block := range a.blocks {
		if block != nil {
			xunsafe.Clear(block, 1<<log)
		}
	}
}

// Realloc grows an allocation.
//
// p must be the most recent allocation for the fast path to apply. Returns
// nil if the arena is exhausted.
//
//go:nosplit
func (a *Arena) Realloc(newSize, oldSize int, p *byte) *byte {
	// This Just Works regardless of whether the allocation is growing or
	// shrinking. If it's shrinking, delta will be negative, and a.Next
	// is never negative, so this will add back the spare capacity.
	i := a.Next.Add(-oldSize)
	j := i.Add(newSize)
	if xunsafe.AddrOf(p) == i && j <= a.End {
		a.Next = j
		a.Log("fast realloc", "%p, %d->%d:%d", p, oldSize, newSize, Align)
		return p
	}

	if newSize < oldSize {
		a.Log("realloc", "%p, %d->%d:%d", p, oldSize, newSize, Align)
		return p
	}

	q := a.Alloc(newSize)
	if q == nil {
		return nil
	}
	a.Log("realloc", "%p->%p, %d->%d:%d", p, q, oldSize, newSize, Align)
	if oldSize > 0 {
		xunsafe.Copy(q, p, oldSize)
	}
	return q
}

// Grow allocates fresh memory onto Next of at least the given size.
//
// Returns false if the arena's limit does not permit another chunk.
func (a *Arena) Grow(size int) bool {
	xunsafe.Escape(a)
	p, n := a.allocChunk(max(size, a.Cap*2))
	if p == nil {
		a.Log("grow failed", "%d, limit %d/%d", size, a.total, a.Limit)
		return false
	}
	// No need to KeepAlive(p) this pointer, since allocChunk sticks it in the
	// dedicated memory block array.

	a.Next = xunsafe.AddrOf(p)
	a.End = a.Next.Add(n)
	a.Cap = n
	a.Log("grow", "%v:%v:%d", a.Next, a.End, a.Cap)
	return true
}

// Total returns the total chunk bytes this arena has acquired.
func (a *Arena) Total() int {
	return a.total
}

func (a *Arena) Log(op, format string, args ...any) {
	if !debug.Enabled {
		return
	}
	debug.Log([]any{"%p %v:%v", a, a.Next, a.End}, op, format, args...)
}
