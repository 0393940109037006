package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "ACME PTY LTD|2001-05-04",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "A VERY LONG BUSINESS NAME THAT SHOULD STILL HASH CONSISTENTLY PTY LTD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("ACME PTY LTD")
	id2 := IDFromContent("ACME CORP")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestBusinessName_ContentKey(t *testing.T) {
	regDate := time.Date(2001, 5, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record BusinessName
		want   string
	}{
		{
			name: "name with registration date",
			record: BusinessName{
				Name:             "ACME PTY LTD",
				RegistrationDate: regDate,
			},
			want: "ACME PTY LTD|2001-05-04",
		},
		{
			name: "name without registration date",
			record: BusinessName{
				Name: "ACME PTY LTD",
			},
			want: "ACME PTY LTD",
		},
		{
			name:   "empty record",
			record: BusinessName{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record.ContentKey()
			if got != tt.want {
				t.Errorf("BusinessName.ContentKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchCategory_String(t *testing.T) {
	tests := []struct {
		name     string
		category MatchCategory
		want     string
	}{
		{name: "exact", category: CategoryExact, want: "Exact"},
		{name: "contains", category: CategoryContains, want: "Contains"},
		{name: "fuzzy", category: CategoryFuzzy, want: "Fuzzy"},
		{name: "unknown", category: MatchCategory(99), want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.String(); got != tt.want {
				t.Errorf("MatchCategory.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
