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


package registry

import "errors"

var (
	// ErrRequestFailed indicates that a request failed after all retry attempts.
	ErrRequestFailed = errors.New("registry request failed")

	// ErrAPIError indicates the CKAN API reported success=false.
	ErrAPIError = errors.New("registry API error")

	// ErrInvalidResponse indicates the response body could not be decoded.
	ErrInvalidResponse = errors.New("invalid registry response")

	// ErrEmptyDataset indicates the registry returned no records.
	ErrEmptyDataset = errors.New("registry returned no records")
)
