package ausbin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dataset"
	"github.com/poiesic/ausbin/registry"
	"github.com/poiesic/ausbin/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRows = []map[string]any{
	{"_id": 1, "BN_NAME": "ACME", "BN_STATUS": "Registered", "BN_STATE": "NSW", "BN_REG_DT": "2015-01-01"},
	{"_id": 2, "BN_NAME": "ACME TRADING", "BN_STATUS": "Registered", "BN_STATE": "VIC", "BN_REG_DT": "2018-06-15"},
	{"_id": 3, "BN_NAME": "SUNSET BAKERY", "BN_STATUS": "Cancelled", "BN_STATE": "NSW", "BN_REG_DT": "2010-03-20"},
}

// newRegistryServer serves the fixed row set through the datastore API
// shape and counts requests.
func newRegistryServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		var params struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
		}
		_ = json.NewDecoder(r.Body).Decode(&params)

		rows := testRows
		if params.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[params.Offset:]
		}
		if params.Limit > 0 && len(rows) > params.Limit {
			rows = rows[:params.Limit]
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": map[string]any{
				"records": rows,
				"total":   len(testRows),
			},
		})
	}))
}

func newTestExplorer(t *testing.T, serverURL string) *Explorer {
	t.Helper()

	config := registry.NewConfig(
		registry.WithBaseURL(serverURL+"/"),
		registry.WithMaxRetries(1),
		registry.WithRetryDelay(time.Millisecond),
	)
	explorer, err := NewExplorer("",
		WithRegistryConfig(config),
		WithInMemoryCache(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { explorer.Close() })
	return explorer
}

func TestExplorerNamesFetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, &hits)
	defer server.Close()

	explorer := newTestExplorer(t, server.URL)
	ctx := context.Background()

	records, err := explorer.Names(ctx, false)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "ACME", records[0].Name)

	fetchHits := hits.Load()
	assert.Positive(t, fetchHits)

	// Second call serves from the cache without touching the registry
	again, err := explorer.Names(ctx, false)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Equal(t, fetchHits, hits.Load())

	meta, err := explorer.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Total)
	assert.False(t, meta.FetchedAt.IsZero())
}

func TestExplorerRefreshIsIdempotent(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, &hits)
	defer server.Close()

	explorer := newTestExplorer(t, server.URL)
	ctx := context.Background()

	_, err := explorer.Names(ctx, false)
	require.NoError(t, err)

	// Refresh re-fetches but content IDs dedupe the records
	records, err := explorer.Names(ctx, true)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	count, err := explorer.Cache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestExplorerSearch(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, &hits)
	defer server.Close()

	explorer := newTestExplorer(t, server.URL)
	ctx := context.Background()

	results, err := explorer.Search(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 100.0, results[0].Score)
	assert.Equal(t, "ACME", results[0].Record.Name)
	assert.Equal(t, 95.0, results[1].Score)
	assert.Equal(t, "ACME TRADING", results[1].Record.Name)

	t.Run("with filters", func(t *testing.T) {
		filtered, err := explorer.Search(ctx, "ACME", dataset.ByState("VIC"))
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "ACME TRADING", filtered[0].Record.Name)
	})

	t.Run("no matches", func(t *testing.T) {
		var none []*core.MatchResult
		none, err = explorer.Search(ctx, "ZZZZZZZZZZZZ")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestExplorerStats(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, &hits)
	defer server.Close()

	explorer := newTestExplorer(t, server.URL)

	stats, err := explorer.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.UniqueNames)
	assert.Equal(t, time.Date(2010, 3, 20, 0, 0, 0, 0, time.UTC), stats.EarliestRegistered)
}

func TestExplorerClearCache(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, &hits)
	defer server.Close()

	explorer := newTestExplorer(t, server.URL)
	ctx := context.Background()

	_, err := explorer.Names(ctx, false)
	require.NoError(t, err)

	require.NoError(t, explorer.ClearCache(ctx))

	_, err = explorer.Meta(ctx)
	assert.ErrorIs(t, err, storage.ErrNoCache)

	// Next read refetches
	before := hits.Load()
	records, err := explorer.Names(ctx, false)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Greater(t, hits.Load(), before)
}
