package dataset

import (
	"sort"
	"strings"
	"time"

	"github.com/poiesic/ausbin/core"
)

// StatusCount is one entry of a status distribution.
type StatusCount struct {
	Status string
	Count  int
}

// Stats summarizes a record collection.
type Stats struct {
	Total               int
	UniqueNames         int
	StatusDistribution  []StatusCount // Sorted by count descending, then status
	StateDistribution   []StatusCount
	EarliestRegistered  time.Time
	LatestRegistered    time.Time
	WithoutRegistration int
}

// Summarize computes aggregate statistics over a record collection.
func Summarize(records []*core.BusinessName) *Stats {
	stats := &Stats{Total: len(records)}

	names := make(map[string]bool, len(records))
	statuses := make(map[string]int)
	states := make(map[string]int)

	for _, record := range records {
		if record == nil {
			continue
		}
		names[strings.ToUpper(strings.TrimSpace(record.Name))] = true

		status := record.Status
		if status == "" {
			status = "Unknown"
		}
		statuses[status]++

		if record.State != "" {
			states[record.State]++
		}

		if record.RegistrationDate.IsZero() {
			stats.WithoutRegistration++
			continue
		}
		if stats.EarliestRegistered.IsZero() || record.RegistrationDate.Before(stats.EarliestRegistered) {
			stats.EarliestRegistered = record.RegistrationDate
		}
		if record.RegistrationDate.After(stats.LatestRegistered) {
			stats.LatestRegistered = record.RegistrationDate
		}
	}

	stats.UniqueNames = len(names)
	stats.StatusDistribution = sortedCounts(statuses)
	stats.StateDistribution = sortedCounts(states)
	return stats
}

// RegistrationsByYear buckets records by registration year. Records without
// a registration date are excluded. Years are returned in ascending order.
func RegistrationsByYear(records []*core.BusinessName) []StatusCount {
	years := make(map[string]int)
	for _, record := range records {
		if record == nil || record.RegistrationDate.IsZero() {
			continue
		}
		years[record.RegistrationDate.Format("2006")]++
	}

	result := make([]StatusCount, 0, len(years))
	for year, count := range years {
		result = append(result, StatusCount{Status: year, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Status < result[j].Status
	})
	return result
}

func sortedCounts(counts map[string]int) []StatusCount {
	result := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Status < result[j].Status
	})
	return result
}
