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

package minipb

import (
	"github.com/diegobes/minipb/mapx"
	"github.com/diegobes/minipb/mem"
	"github.com/diegobes/minipb/message"
	"github.com/diegobes/minipb/minitable"
)

// The core types, re-exported so that simple consumers need only this
// package.
type (
	// Arena is the allocator every message instance and all of its dynamic
	// state lives on. A zero Arena is ready to use.
	Arena = mem.Arena

	// Type is the static layout shared by all instances of a message type.
	Type = minitable.Type

	// Field is the runtime descriptor for one field.
	Field = minitable.Field

	// Extension is the descriptor for a dynamically-attached field.
	Extension = minitable.Extension

	// StringView is the stored form of string-view-class field values.
	StringView = minitable.StringView

	// Message is a message instance.
	Message = message.Message

	// Map is the container held by map-shaped fields.
	Map = mapx.Map
)

// Representation classes, re-exported.
const (
	Rep1Byte      = minitable.Rep1Byte
	Rep4Byte      = minitable.Rep4Byte
	Rep8Byte      = minitable.Rep8Byte
	RepStringView = minitable.RepStringView
)

// NewMessage creates a new, empty instance of t on a.
//
// Returns nil if the arena is exhausted.
func NewMessage(t *Type, a *Arena) *Message {
	return message.New(t, a)
}

// Get extracts f's value from m, or def if f is not set.
func Get[T any](m *Message, f *Field, def T) T {
	return message.Get(m, f, def)
}

// Set stores v as f's value in m.
//
// Returns false only if f is an extension and a is exhausted.
func Set[T any](m *Message, f *Field, v T, a *Arena) bool {
	return message.Set(m, f, v, a)
}
