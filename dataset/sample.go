package dataset

import (
	"math/rand"

	"github.com/poiesic/ausbin/core"
)

// Sample returns n records drawn without replacement using the given seed.
// The same seed over the same input always yields the same sample. When n
// meets or exceeds the input size the whole input is returned unshuffled.
func Sample(records []*core.BusinessName, n int, seed int64) []*core.BusinessName {
	if n <= 0 {
		return nil
	}
	if n >= len(records) {
		return records
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(records))[:n]

	result := make([]*core.BusinessName, 0, n)
	for _, idx := range picked {
		result = append(result, records[idx])
	}
	return result
}
