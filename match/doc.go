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


// Package match implements the similarity-search ranking engine for
// business name records.
//
// The Matcher type partitions a record collection against a free-text term
// into three mutually exclusive categories, in priority order:
//   - Exact: normalized name equals the normalized term (score 100.0)
//   - Contains: normalized name contains the normalized term (score 95.0)
//   - Fuzzy: edit-distance ratio at or above the configured threshold
//
// Results from all passes are merged under a single total order
// (score descending, name ascending) and capped at the configured limit.
//
// Matching is pure computation over an in-memory collection: no I/O, no
// shared state, and no error paths within the documented input domain.
package match
