package dataset

import (
	"sort"
	"strings"

	"github.com/poiesic/ausbin/core"
)

// Common business name suffixes to filter out of word frequency counts
var suffixWords = map[string]bool{
	"PTY": true, "LTD": true, "LIMITED": true, "COMPANY": true, "CORP": true,
	"INC": true, "LLC": true, "SERVICES": true, "GROUP": true, "HOLDINGS": true,
	"AUSTRALIA": true, "AUSTRALIAN": true, "THE": true, "AND": true, "OF": true,
}

// WordCount is one entry of a word frequency table.
type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies counts word occurrences across record names, skipping
// common business suffixes and single characters. Results are sorted by
// count descending, then word, and truncated to limit (0 means no limit).
func WordFrequencies(records []*core.BusinessName, limit int) []WordCount {
	counts := make(map[string]int)
	for _, record := range records {
		if record == nil {
			continue
		}
		for _, word := range strings.Fields(strings.ToUpper(record.Name)) {
			cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}&")
			if len(cleaned) < 2 || suffixWords[cleaned] {
				continue
			}
			counts[cleaned]++
		}
	}

	result := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		result = append(result, WordCount{Word: word, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
