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

// Package minipb is a table-driven message runtime core: one universal set
// of field accessors serving every message type through compact runtime
// descriptors.
//
// Rather than generating storage and accessor code per message type, a
// message type is described by a [Type]: for each field, a byte offset, a
// representation class (how wide the stored value is), and how explicit
// presence is tracked (a has-bit, or a oneof group's discriminant). Message
// instances are flat byte regions on an [Arena]; [Get], [Set],
// [Message.Has] and [Message.Clear] interpret them through the descriptors.
// When the compiler can see a concrete descriptor, the accessors reduce to
// the same loads and stores a hand-written accessor would emit.
//
// Extensions, fields outside a type's static layout, are stored in a
// per-instance table created on first write; the same accessors serve them
// through descriptors flagged as extensions.
//
// This module deliberately stops at field access. Wire encoding, schema
// parsing, and descriptor compilation are the business of layers built on
// top of it.
package minipb
