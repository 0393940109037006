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


package match

import "errors"

var (
	// ErrInvalidThreshold is returned for thresholds outside [0, 100].
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")

	// ErrInvalidLimit is returned for negative result limits.
	ErrInvalidLimit = errors.New("limit must not be negative")

	// ErrInvalidSampleCap is returned for non-positive fuzzy sample caps.
	ErrInvalidSampleCap = errors.New("sample cap must be greater than 0")

	// ErrMatcherRequired is returned when a matcher is not provided.
	ErrMatcherRequired = errors.New("matcher required")
)
