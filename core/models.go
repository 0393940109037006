package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that re-fetching the same
// dataset produces stable identifiers.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// BusinessName represents a single registered business name from the register.
type BusinessName struct {
	Id               ID
	Name             string
	Status           string
	State            string
	RegistrationDate time.Time
	RenewalDate      time.Time
	CancelDate       time.Time
	Fields           map[string]string // Registry columns with no dedicated field
	FetchedAt        time.Time         // When the record was retrieved from the registry
}

// ContentKey returns the string hashed to derive a content-based ID.
func (b *BusinessName) ContentKey() string {
	key := b.Name
	if !b.RegistrationDate.IsZero() {
		key += "|" + b.RegistrationDate.UTC().Format("2006-01-02")
	}
	return key
}

// MatchCategory classifies how a record matched a search term.
// Categories are mutually exclusive within one match invocation.
type MatchCategory int

const (
	// CategoryExact indicates the normalized name equals the normalized term.
	CategoryExact MatchCategory = iota + 1
	// CategoryContains indicates the normalized name contains the normalized term.
	CategoryContains
	// CategoryFuzzy indicates the record matched by similarity ratio only.
	CategoryFuzzy
)

// String returns the display name of the category.
func (c MatchCategory) String() string {
	switch c {
	case CategoryExact:
		return "Exact"
	case CategoryContains:
		return "Contains"
	case CategoryFuzzy:
		return "Fuzzy"
	default:
		return "Unknown"
	}
}

// MatchResult is a business name record scored against a search term.
// Results are created by the matcher and never mutated after creation.
type MatchResult struct {
	Record   *BusinessName
	Score    float64 // 0.0-100.0
	Category MatchCategory
}
