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

package mapx

import (
	"encoding/binary"
	"math/bits"
)

// fxhash is a simple hasher for raw key bytes.
type fxhash uint64

//go:nosplit
func (h fxhash) u64(n uint64) fxhash {
	const (
		rotate = 5
		key    = 0x517cc1b727220a95
	)

	// See https://docs.rs/fxhash.
	hi, lo := bits.Mul64(bits.RotateLeft64(uint64(h), rotate)^n, key)
	return fxhash(lo ^ hi)
}

//go:nosplit
func (h fxhash) bytes(b []byte) fxhash {
	h = h.u64(uint64(len(b)))
	for len(b) >= 8 {
		h = h.u64(binary.LittleEndian.Uint64(b))
		b = b[8:]
	}

	switch {
	case len(b) >= 4:
		m := len(b) - 4
		last := uint64(binary.LittleEndian.Uint32(b)) |
			uint64(binary.LittleEndian.Uint32(b[m:]))<<(m*8)
		return h.u64(last)
	case len(b) > 0:
		last := uint64(b[0]) | uint64(b[len(b)/2])<<8 | uint64(b[len(b)-1])<<16
		return h.u64(last)
	default:
		return h
	}
}
