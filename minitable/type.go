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
	"google.golang.org/protobuf/encoding/protowire"
)

// Type is the per-message-type table: the static layout every instance of a
// message type shares.
//
// The data region of an instance starts with HasbitWords 32-bit words of
// has-bits, followed by field storage and oneof discriminants at the offsets
// the fields record. Compiling a Type from a schema happens upstream; this
// package treats the result as validated, read-only input.
type Type struct {
	// Size is the total byte size of the data region, including the
	// has-bit words.
	Size uint32

	// HasbitWords is the number of 32-bit has-bit words at the head of the
	// data region. Every Field with hasbit presence must index into these.
	HasbitWords uint32

	// Fields holds the non-extension fields of this type, in field-number
	// order.
	Fields []Field
}

// FieldByNumber looks up a field descriptor by field number.
//
// Returns nil if no such field exists in the static layout.
func (t *Type) FieldByNumber(n protowire.Number) *Field {
	for i := range t.Fields {
		if t.Fields[i].Number == n {
			return &t.Fields[i]
		}
	}
	return nil
}
