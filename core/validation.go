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

import (
	"fmt"
	"time"
)

// ValidateBusinessName validates a BusinessName according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - RegistrationDate must not be in the future
//
// NOT validated (populated elsewhere):
//   - Status, State, dates other than registration (registry data is sparse)
//   - ID (0 is valid before content hashing is applied)
func ValidateBusinessName(record *BusinessName) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidBusinessName)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessName, ErrEmptyName)
	}

	if !IsValidRegistrationDate(record.RegistrationDate) {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessName, ErrInvalidRegistrationDate)
	}

	return nil
}

// ValidateMatchResult validates a MatchResult according to domain rules.
//
// Validation rules:
//   - Category must be a known value
//   - Score must lie in [0, 100]
//   - Exact results carry exactly 100.0
func ValidateMatchResult(result *MatchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidMatchCategory)
	}

	if err := ValidateMatchCategory(result.Category); err != nil {
		return err
	}

	if result.Score < 0 || result.Score > 100 {
		return fmt.Errorf("%w: value %f", ErrInvalidScore, result.Score)
	}

	if result.Category == CategoryExact && result.Score != 100.0 {
		return fmt.Errorf("%w: exact match scored %f", ErrInvalidScore, result.Score)
	}

	return nil
}

// ValidateMatchCategory validates that a MatchCategory has a valid value.
func ValidateMatchCategory(category MatchCategory) error {
	if category != CategoryExact && category != CategoryContains && category != CategoryFuzzy {
		return fmt.Errorf("%w: value %d", ErrInvalidMatchCategory, category)
	}
	return nil
}

// IsValidRegistrationDate checks if a registration date is valid.
// The zero time is valid because many registry rows omit the column.
func IsValidRegistrationDate(ts time.Time) bool {
	return ts.IsZero() || !ts.After(time.Now())
}
