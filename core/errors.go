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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidBusinessName indicates a BusinessName failed validation.
	ErrInvalidBusinessName = errors.New("invalid business name record")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidRegistrationDate indicates a registration date in the future.
	ErrInvalidRegistrationDate = errors.New("registration date cannot be in the future")

	// ErrInvalidMatchCategory indicates an invalid MatchCategory value.
	ErrInvalidMatchCategory = errors.New("invalid match category")

	// ErrInvalidScore indicates a similarity score outside the 0-100 range.
	ErrInvalidScore = errors.New("similarity score must be between 0 and 100")
)
