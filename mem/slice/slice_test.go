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

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegobes/minipb/internal/debug"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/mem/slice"
)

func TestMake(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := new(mem.Arena)
	s, ok := slice.Make[uint64](arena, 4)
	require.True(t, ok)
	assert.Equal(t, 4, s.Len())
	assert.GreaterOrEqual(t, s.Cap(), 4)

	for i := 0; i < s.Len(); i++ {
		assert.Zero(t, s.Load(i))
	}
}

func TestAppendOne(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := new(mem.Arena)
	var s slice.Slice[uint64]
	var ok bool

	const n = 100
	for i := uint64(0); i < n; i++ {
		s, ok = s.AppendOne(arena, i*7)
		require.True(t, ok, "append %d", i)
	}

	assert.Equal(t, n, s.Len())
	for i, v := range s.Raw() {
		assert.Equal(t, uint64(i)*7, v, "element %d", i)
	}
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := new(mem.Arena)
	s, ok := slice.Make[uint32](arena, 3)
	require.True(t, ok)

	s.Store(0, 10)
	s.Store(2, 30)
	assert.Equal(t, uint32(10), s.Load(0))
	assert.Equal(t, uint32(0), s.Load(1))
	assert.Equal(t, uint32(30), s.Load(2))
	*s.At(1) = 20
	assert.Equal(t, uint32(20), s.Load(1))
}

func TestAddrRoundTrip(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := new(mem.Arena)
	s, ok := slice.Make[uint64](arena, 2)
	require.True(t, ok)
	s.Store(0, 1)
	s.Store(1, 2)

	r := s.Addr().AssertValid()
	assert.Same(t, s.Ptr(), r.Ptr())
	assert.Equal(t, s.Len(), r.Len())
	assert.Equal(t, s.Cap(), r.Cap())
	assert.Equal(t, uint64(2), r.Load(1))
}

func TestGrowExhaustedArena(t *testing.T) {
	t.Parallel()
	defer debug.WithTesting(t)()

	arena := &mem.Arena{Limit: 64}
	s, ok := slice.Make[uint64](arena, 4)
	require.True(t, ok)
	s.Store(0, 99)

	grown, ok := s.Grow(arena, 1000)
	assert.False(t, ok)
	assert.Equal(t, uint64(99), grown.Load(0))
	assert.Equal(t, s.Len(), grown.Len())
}
