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

	"github.com/diegobes/minipb/internal/xunsafe"
)

// Extension is the descriptor for an extension field: a field that is not
// part of any message type's static layout and is instead stored in a
// per-instance table.
//
// Extension values are addressed by descriptor identity: two lookups with the
// same *Extension find the same entry, and distinct descriptors never alias.
// An Extension must therefore not be copied once it has been used to write a
// field.
type Extension struct {
	_ xunsafe.NoCopy

	// Field must be the first non-zero-sized member; Field.Extension relies
	// on the two descriptors sharing an address.
	Field Field
}

// NewExtension returns an extension descriptor for the given number and
// representation class.
//
// Extensions never carry a [Presence]: they are present exactly when an
// entry for them exists in the instance's table.
func NewExtension(number protowire.Number, rep Rep) *Extension {
	x := &Extension{}
	x.Field = Field{
		Number: number,
		Rep:    rep,
		Flags:  FlagExtension,
	}
	return x
}
