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
	"github.com/diegobes/minipb/minitable"
)

// copyField moves exactly one value of the given representation class from
// src to dst. It neither knows nor cares what the value logically is.
func copyField(dst, src *byte, rep minitable.Rep) {
	switch rep {
	case minitable.Rep1Byte:
		xunsafe.ByteStore(dst, 0, xunsafe.ByteLoad[uint8](src, 0))
	case minitable.Rep4Byte:
		xunsafe.ByteStore(dst, 0, xunsafe.ByteLoad[uint32](src, 0))
	case minitable.Rep8Byte:
		xunsafe.ByteStore(dst, 0, xunsafe.ByteLoad[uint64](src, 0))
	case minitable.RepStringView:
		xunsafe.ByteStore(dst, 0, xunsafe.ByteLoad[minitable.StringView](src, 0))
	default:
		debug.Assert(false, "malformed representation class %d", rep)
	}
}

// isNonZero reports whether the value at p differs from the class's zero
// value.
//
// For the string-view class only the length is consulted: a zero-length view
// is the canonical empty value no matter what its address holds.
func isNonZero(p *byte, rep minitable.Rep) bool {
	switch rep {
	case minitable.Rep1Byte:
		return xunsafe.ByteLoad[uint8](p, 0) != 0
	case minitable.Rep4Byte:
		return xunsafe.ByteLoad[uint32](p, 0) != 0
	case minitable.Rep8Byte:
		return xunsafe.ByteLoad[uint64](p, 0) != 0
	case minitable.RepStringView:
		return xunsafe.ByteLoad[minitable.StringView](p, 0).Len != 0
	default:
		debug.Assert(false, "malformed representation class %d", rep)
		return false
	}
}
