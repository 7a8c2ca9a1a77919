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

package message_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/message"
	"github.com/diegobes/minipb/minitable"
)

// testType lays out a message with one has-bit word at the head of the data
// region, followed by:
//
//	0x04: oneof discriminant for the group {b, c}
//	0x08: a  int32, has-bit 0
//	0x0c: b  int32, oneof member, number 2
//	0x0c: c  int32, oneof member, number 7
//	0x10: s  string view, has-bit 1
//	0x20: u  uint64, implicit presence
//	0x28: mp map handle
//	0x30: d  int32, has-bit 2, default 99
var testType = &minitable.Type{
	Size:        64,
	HasbitWords: 1,
	Fields: []minitable.Field{
		{Offset: 0x08, Number: 1, Rep: minitable.Rep4Byte, Presence: minitable.Hasbit(0)},
		{Offset: 0x0c, Number: 2, Rep: minitable.Rep4Byte, Presence: minitable.OneofCase(0x04)},
		{Offset: 0x0c, Number: 7, Rep: minitable.Rep4Byte, Presence: minitable.OneofCase(0x04)},
		{Offset: 0x10, Number: 3, Rep: minitable.RepStringView, Presence: minitable.Hasbit(1)},
		{Offset: 0x20, Number: 4, Rep: minitable.Rep8Byte},
		{Offset: 0x28, Number: 5, Rep: minitable.Rep8Byte, Flags: minitable.FlagMap},
		{Offset: 0x30, Number: 6, Rep: minitable.Rep4Byte, Presence: minitable.Hasbit(2)},
	},
}

func field(t *testing.T, n protowire.Number) *minitable.Field {
	t.Helper()
	f := testType.FieldByNumber(n)
	require.NotNil(t, f)
	return f
}

func newMessage(t *testing.T) (*message.Message, *mem.Arena) {
	t.Helper()
	arena := new(mem.Arena)
	m := message.New(testType, arena)
	require.NotNil(t, m)
	return m, arena
}

func TestHasbitField(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	a := field(t, 1)

	assert.False(t, m.Has(a))
	assert.Equal(t, int32(0), message.Get(m, a, int32(0)))

	require.True(t, message.Set(m, a, int32(5), nil))
	assert.True(t, m.Has(a))
	assert.Equal(t, int32(5), message.Get(m, a, int32(0)))

	m.Clear(a)
	assert.False(t, m.Has(a))
	assert.Equal(t, int32(0), message.Get(m, a, int32(0)))
}

func TestExplicitZeroIsPresent(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	a := field(t, 1)

	// Presence bookkeeping, not the stored bytes, decides "set": a field
	// explicitly set to its zero value is still present.
	require.True(t, message.Set(m, a, int32(0), nil))
	assert.True(t, m.Has(a))
}

func TestClearIdempotent(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	a := field(t, 1)

	require.True(t, message.Set(m, a, int32(41), nil))
	m.Clear(a)
	has1, got1 := m.Has(a), message.Get(m, a, int32(0))
	m.Clear(a)
	has2, got2 := m.Has(a), message.Get(m, a, int32(0))

	assert.Equal(t, has1, has2)
	assert.Equal(t, got1, got2)
	assert.False(t, has2)
	assert.Equal(t, int32(0), got2)
}

func TestOneofExclusivity(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	b, c := field(t, 2), field(t, 7)

	assert.False(t, m.Has(b))
	assert.False(t, m.Has(c))
	assert.Equal(t, protowire.Number(0), m.WhichOneof(b))

	require.True(t, message.Set(m, b, int32(5), nil))
	assert.True(t, m.Has(b))
	assert.False(t, m.Has(c))

	require.True(t, message.Set(m, c, int32(9), nil))
	assert.True(t, m.Has(c))
	assert.False(t, m.Has(b))
	assert.Equal(t, protowire.Number(7), m.WhichOneof(b))
	assert.Equal(t, int32(0), message.Get(m, b, int32(0)))
	assert.Equal(t, int32(9), message.Get(m, c, int32(0)))

	// Clearing the inactive member must not disturb the group.
	m.Clear(b)
	assert.True(t, m.Has(c))
	assert.Equal(t, int32(9), message.Get(m, c, int32(0)))

	m.Clear(c)
	assert.False(t, m.Has(c))
	assert.Equal(t, protowire.Number(0), m.WhichOneof(b))
}

func TestNonZeroDefault(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	d := field(t, 6)
	const def = int32(99)

	assert.False(t, m.Has(d))
	assert.Equal(t, def, message.Get(m, d, def))

	require.True(t, message.Set(m, d, int32(5), nil))
	assert.True(t, m.Has(d))
	assert.Equal(t, int32(5), message.Get(m, d, def))

	m.Clear(d)
	assert.False(t, m.Has(d))
	assert.Equal(t, def, message.Get(m, d, def))
}

func TestImplicitPresenceField(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	u := field(t, 4)

	assert.Equal(t, uint64(0), message.Get(m, u, uint64(0)))
	require.True(t, message.Set(m, u, uint64(0xdeadbeef), nil))
	assert.Equal(t, uint64(0xdeadbeef), message.Get(m, u, uint64(0)))
	m.Clear(u)
	assert.Equal(t, uint64(0), message.Get(m, u, uint64(0)))
}

func TestStringViewField(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	s := field(t, 3)

	hello := []byte("hello")
	var empty minitable.StringView

	assert.False(t, m.Has(s))
	assert.Equal(t, "", message.Get(m, s, empty).String())

	require.True(t, message.Set(m, s, minitable.ViewOf(hello), nil))
	assert.True(t, m.Has(s))
	assert.Equal(t, "hello", message.Get(m, s, empty).String())

	m.Clear(s)
	assert.False(t, m.Has(s))
	assert.Equal(t, uint64(0), message.Get(m, s, empty).Len)

	// The view aliases hello's bytes rather than owning them.
	runtime.KeepAlive(hello)
}

func TestConcreteScenario(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, _ := newMessage(t)
	a, b, c := field(t, 1), field(t, 2), field(t, 7)

	require.True(t, message.Set(m, a, int32(5), nil))
	assert.True(t, m.Has(a))
	assert.Equal(t, int32(5), message.Get(m, a, int32(0)))

	require.True(t, message.Set(m, c, int32(9), nil))
	assert.True(t, m.Has(c))
	assert.False(t, m.Has(b))
	assert.Equal(t, int32(0), message.Get(m, b, int32(0)))

	m.Clear(a)
	assert.False(t, m.Has(a))
	assert.Equal(t, int32(0), message.Get(m, a, int32(0)))
}

func TestExtensionRoundTrip(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, arena := newMessage(t)
	ext1 := minitable.NewExtension(1000, minitable.Rep8Byte)
	f := &ext1.Field

	assert.False(t, m.Has(f))
	assert.Equal(t, uint64(42), message.Get(m, f, uint64(42)))

	require.True(t, message.Set(m, f, uint64(100), arena))
	assert.True(t, m.Has(f))
	assert.Equal(t, uint64(100), message.Get(m, f, uint64(42)))

	m.Clear(f)
	assert.False(t, m.Has(f))
	assert.Equal(t, uint64(42), message.Get(m, f, uint64(42)))
}

func TestExtensionIndependence(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, arena := newMessage(t)

	exts := []*minitable.Extension{
		minitable.NewExtension(1000, minitable.Rep8Byte),
		minitable.NewExtension(1001, minitable.Rep8Byte),
		minitable.NewExtension(1002, minitable.Rep8Byte),
	}
	for i, x := range exts {
		require.True(t, message.Set(m, &x.Field, uint64(i+1), arena))
	}

	// Removing one entry must not change what the others store, even
	// though it may shuffle them in the table.
	m.Clear(&exts[0].Field)
	assert.False(t, m.Has(&exts[0].Field))
	assert.Equal(t, uint64(2), message.Get(m, &exts[1].Field, uint64(0)))
	assert.Equal(t, uint64(3), message.Get(m, &exts[2].Field, uint64(0)))

	// Re-adding after removal works.
	require.True(t, message.Set(m, &exts[0].Field, uint64(17), arena))
	assert.Equal(t, uint64(17), message.Get(m, &exts[0].Field, uint64(0)))
}

func TestExtensionOverwrite(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, arena := newMessage(t)
	x := minitable.NewExtension(2000, minitable.Rep4Byte)

	require.True(t, message.Set(m, &x.Field, int32(1), arena))
	require.True(t, message.Set(m, &x.Field, int32(2), arena))
	assert.Equal(t, int32(2), message.Get(m, &x.Field, int32(0)))
}

func TestExtensionSetExhaustedArena(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	// Enough for the instance's chunk, but not for the extension table's.
	arena := &mem.Arena{Limit: 256}
	m := message.New(testType, arena)
	require.NotNil(t, m)

	x := minitable.NewExtension(1000, minitable.Rep8Byte)
	assert.False(t, message.Set(m, &x.Field, uint64(1), arena))

	// A failed Set leaves the instance exactly as it was.
	assert.False(t, m.Has(&x.Field))
	assert.Equal(t, uint64(42), message.Get(m, &x.Field, uint64(42)))

	// Non-extension writes do not allocate and still succeed.
	a := field(t, 1)
	require.True(t, message.Set(m, a, int32(5), nil))
	assert.Equal(t, int32(5), message.Get(m, a, int32(0)))
}

func TestMutableMapLazy(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()
	m, arena := newMessage(t)
	mp := field(t, 5)

	m1 := m.MutableMap(mp, 4, 8, arena)
	require.NotNil(t, m1)
	assert.Equal(t, 0, m1.Len())

	// The second call must return the same handle, not a fresh map.
	m2 := m.MutableMap(mp, 4, 8, arena)
	assert.Same(t, m1, m2)

	// The handle round-trips through the ordinary accessor path too.
	var zero, stored uint64
	stored = message.Get(m, mp, zero)
	assert.NotZero(t, stored)
}

func TestMessageNewExhaustedArena(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := &mem.Arena{Limit: 32}
	assert.Nil(t, message.New(testType, arena))
}
