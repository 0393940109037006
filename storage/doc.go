// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the local cache contract for fetched register
// records and the serialization used to persist them.
//
// The register dataset changes slowly and is expensive to re-fetch, so the
// front ends cache one full snapshot locally and work against it. The cache
// preserves fetch order: the matcher's fuzzy sample cap scores the first N
// candidates in input order, which makes iteration order part of the
// contract rather than a cosmetic detail.
//
// Records are serialized with the MUS binary format. The concrete backend
// lives in the badger subpackage; this package only defines interfaces and
// codecs so alternative backends stay possible.
package storage
