package match

import (
	"strings"

	"github.com/poiesic/ausbin/core"
)

// Normalize returns the comparison form of a term or name: leading and
// trailing whitespace trimmed, upper-cased.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// normalizedName returns the comparison form of a record's name.
// A nil record or missing name is coerced to the empty string, which never
// matches a non-empty term.
func normalizedName(record *core.BusinessName) string {
	if record == nil {
		return ""
	}
	return Normalize(record.Name)
}
