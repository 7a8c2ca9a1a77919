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

package minitable

import (
	"unsafe"

	"github.com/diegobes/minipb/internal/xunsafe"
)

// StringView is the stored form of a [RepStringView]-class field: an address
// and a length.
//
// The zero value faithfully represents the empty string. A view with Len == 0
// is empty no matter what its address holds; the address of an empty view is
// never dereferenced.
//
// The address is an [xunsafe.Addr] rather than a true pointer so that views
// can live in arena memory the GC does not scan. The bytes a view refers to
// must be kept alive by the owner of the message holding it, typically by
// living on the same arena.
type StringView struct {
	Data xunsafe.Addr[byte]
	Len  uint64
}

// StringViewSize is the stored width of a [StringView].
const StringViewSize = int(unsafe.Sizeof(StringView{}))

// ViewOf creates a view over the given bytes.
func ViewOf(b []byte) StringView {
	return StringView{
		Data: xunsafe.AddrOf(unsafe.SliceData(b)),
		Len:  uint64(len(b)),
	}
}

// Bytes returns the bytes this view refers to.
func (v StringView) Bytes() []byte {
	if v.Len == 0 {
		return nil
	}
	return unsafe.Slice(v.Data.AssertValid(), v.Len)
}

// String returns the viewed bytes as a string, copying them.
func (v StringView) String() string {
	return string(v.Bytes())
}
