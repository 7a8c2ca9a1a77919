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

import "fmt"

// Rep is a field's representation class: the physical width of its stored
// value, independent of its logical type.
//
// Every field of a message is stored as one of these four shapes, which is
// what lets a single set of accessor functions serve every field of every
// message type.
type Rep uint8

const (
	Rep1Byte Rep = iota // bool, and anything else one byte wide
	Rep4Byte            // fixed32, float, enum, int32...
	Rep8Byte            // fixed64, double, int64, handles to messages and maps
	RepStringView       // a (address, length) pair; see [StringView]
)

// Size returns the number of bytes a value of this class occupies.
func (r Rep) Size() int {
	switch r {
	case Rep1Byte:
		return 1
	case Rep4Byte:
		return 4
	case Rep8Byte:
		return 8
	case RepStringView:
		return StringViewSize
	}
	panic(fmt.Sprintf("minipb: malformed representation class %d", uint8(r)))
}

// String implements [fmt.Stringer].
func (r Rep) String() string {
	switch r {
	case Rep1Byte:
		return "1byte"
	case Rep4Byte:
		return "4byte"
	case Rep8Byte:
		return "8byte"
	case RepStringView:
		return "view"
	}
	return fmt.Sprintf("Rep(%d)", uint8(r))
}
