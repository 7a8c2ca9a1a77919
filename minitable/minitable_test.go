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

package minitable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegobes/minipb/minitable"
)

func TestRepSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, minitable.Rep1Byte.Size())
	assert.Equal(t, 4, minitable.Rep4Byte.Size())
	assert.Equal(t, 8, minitable.Rep8Byte.Size())
	assert.Equal(t, minitable.StringViewSize, minitable.RepStringView.Size())
}

func TestPresence(t *testing.T) {
	t.Parallel()

	var none minitable.Presence
	assert.Equal(t, minitable.PresenceNone, none.Kind())
	assert.False(t, none.IsTracked())
	assert.False(t, none.InOneof())

	hb := minitable.Hasbit(5)
	assert.Equal(t, minitable.PresenceHasbit, hb.Kind())
	assert.True(t, hb.IsTracked())
	assert.False(t, hb.InOneof())
	assert.Equal(t, uint32(5), hb.HasbitIndex())

	oo := minitable.OneofCase(0x10)
	assert.Equal(t, minitable.PresenceOneof, oo.Kind())
	assert.True(t, oo.IsTracked())
	assert.True(t, oo.InOneof())
	assert.Equal(t, uint32(0x10), oo.CaseOffset())
}

func TestFieldFlags(t *testing.T) {
	t.Parallel()

	plain := minitable.Field{Number: 1, Rep: minitable.Rep4Byte}
	assert.False(t, plain.IsExtension())
	assert.False(t, plain.IsMap())
	assert.False(t, plain.HasPresence())
	assert.False(t, plain.InOneof())

	mapped := minitable.Field{Number: 2, Rep: minitable.Rep8Byte, Flags: minitable.FlagMap}
	assert.True(t, mapped.IsMap())

	tracked := minitable.Field{Number: 3, Rep: minitable.Rep4Byte, Presence: minitable.Hasbit(0)}
	assert.True(t, tracked.HasPresence())
	assert.False(t, tracked.InOneof())

	member := minitable.Field{Number: 4, Rep: minitable.Rep4Byte, Presence: minitable.OneofCase(8)}
	assert.True(t, member.HasPresence())
	assert.True(t, member.InOneof())
}

func TestNewExtension(t *testing.T) {
	t.Parallel()

	x := minitable.NewExtension(1000, minitable.Rep8Byte)
	require.NotNil(t, x)
	assert.True(t, x.Field.IsExtension())
	assert.False(t, x.Field.HasPresence())
	assert.Equal(t, minitable.Rep8Byte, x.Field.Rep)

	// The embedded field maps back to its descriptor.
	assert.Same(t, x, x.Field.Extension())
}

func TestStringView(t *testing.T) {
	t.Parallel()

	var zero minitable.StringView
	assert.Nil(t, zero.Bytes())
	assert.Equal(t, "", zero.String())

	v := minitable.ViewOf([]byte("hello"))
	assert.Equal(t, uint64(5), v.Len)
	assert.Equal(t, []byte("hello"), v.Bytes())
	assert.Equal(t, "hello", v.String())
}

func TestFieldByNumber(t *testing.T) {
	t.Parallel()

	ty := &minitable.Type{
		Size: 16,
		Fields: []minitable.Field{
			{Offset: 0, Number: 1, Rep: minitable.Rep4Byte},
			{Offset: 8, Number: 5, Rep: minitable.Rep8Byte},
		},
	}

	f := ty.FieldByNumber(5)
	require.NotNil(t, f)
	assert.Equal(t, uint32(8), f.Offset)

	assert.Nil(t, ty.FieldByNumber(2))
}
