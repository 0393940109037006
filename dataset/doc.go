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


// Package dataset provides filtering, sampling and summary statistics over
// collections of business name records.
//
// Filters are composable predicates applied before ranking: callers narrow
// the record set by status, state, registration date or name pattern, then
// hand the result to the match engine. Summarize produces the aggregate
// view used by the stats command and the dashboard, and WordFrequencies
// feeds the word cloud displays.
package dataset
