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

// Empty is the distinguished immutable empty map.
//
// Read-only consumers may hand it out in place of a nil handle so their
// callers never see "no map" and "empty map" as different things. It must
// never end up stored in a message field: the mutable-map accessor would
// otherwise hand a caller an immutable table, and it asserts against exactly
// that in debug builds. [Map.Insert] on it panics.
var Empty = &Map{}
