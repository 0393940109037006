package dataset

import (
	"strings"
	"time"

	"github.com/poiesic/ausbin/core"
)

// Filter is a predicate over a single record. Filters compose with And and
// are applied to a collection with Apply.
type Filter func(record *core.BusinessName) bool

// ByStatus matches records whose status contains the given value,
// case-insensitively. An empty value matches everything.
func ByStatus(status string) Filter {
	want := strings.ToUpper(strings.TrimSpace(status))
	return func(record *core.BusinessName) bool {
		if want == "" {
			return true
		}
		return strings.Contains(strings.ToUpper(record.Status), want)
	}
}

// ByState matches records whose state contains the given value,
// case-insensitively. An empty value matches everything.
func ByState(state string) Filter {
	want := strings.ToUpper(strings.TrimSpace(state))
	return func(record *core.BusinessName) bool {
		if want == "" {
			return true
		}
		return strings.Contains(strings.ToUpper(record.State), want)
	}
}

// RegisteredSince matches records registered on or after the given date.
// Records without a registration date never match.
func RegisteredSince(since time.Time) Filter {
	return func(record *core.BusinessName) bool {
		if record.RegistrationDate.IsZero() {
			return false
		}
		return !record.RegistrationDate.Before(since)
	}
}

// MatchPattern matches records whose name contains the pattern,
// case-insensitively. An empty pattern matches everything.
func MatchPattern(pattern string) Filter {
	want := strings.ToUpper(strings.TrimSpace(pattern))
	return func(record *core.BusinessName) bool {
		if want == "" {
			return true
		}
		return strings.Contains(strings.ToUpper(record.Name), want)
	}
}

// And combines filters; a record passes only if every filter matches.
func And(filters ...Filter) Filter {
	return func(record *core.BusinessName) bool {
		for _, filter := range filters {
			if !filter(record) {
				return false
			}
		}
		return true
	}
}

// Apply returns the records passing all filters, preserving input order.
// Nil records are dropped.
func Apply(records []*core.BusinessName, filters ...Filter) []*core.BusinessName {
	combined := And(filters...)
	result := make([]*core.BusinessName, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if combined(record) {
			result = append(result, record)
		}
	}
	return result
}
