package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(serverURL string) *Config {
	return NewConfig(
		WithBaseURL(serverURL+"/api/action/"),
		WithResourceID("test-resource"),
		WithTimeout(5*time.Second),
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond),
	)
}

func datastoreResponse(total int, rows ...map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"result": map[string]any{
			"records": rows,
			"total":   total,
		},
	}
}

func TestNewClient(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		client, err := NewClient(nil)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewClient(&Config{})
		assert.Error(t, err)
	})

	t.Run("base URL normalized", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("https://example.test/api/action"))
		_, err := NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/api/action/", cfg.BaseURL)
	})
}

func TestSearch_DecodesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/action/datastore_search", r.URL.Path)

		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "test-resource", params["resource_id"])
		assert.Equal(t, "acme", params["q"])

		json.NewEncoder(w).Encode(datastoreResponse(2,
			map[string]any{
				"_id":       float64(1),
				"BN_NAME":   "ACME PTY LTD",
				"BN_STATUS": "Registered",
				"BN_STATE":  "NSW",
				"BN_REG_DT": "2001-05-04",
				"BN_ABN":    "123456789",
			},
			map[string]any{
				"_id":     float64(2),
				"BN_NAME": "ACME CORP",
			},
		))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Search(context.Background(), SearchRequest{Query: "acme"})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.Total)

	first := result.Records[0]
	assert.Equal(t, "ACME PTY LTD", first.Name)
	assert.Equal(t, "Registered", first.Status)
	assert.Equal(t, "NSW", first.State)
	assert.Equal(t, 2001, first.RegistrationDate.Year())
	assert.Equal(t, "123456789", first.Fields["BN_ABN"])
	assert.NotZero(t, first.Id)
	assert.False(t, first.FetchedAt.IsZero())

	second := result.Records[1]
	assert.Equal(t, "ACME CORP", second.Name)
	assert.True(t, second.RegistrationDate.IsZero())
}

func TestSearch_RetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(datastoreResponse(1, map[string]any{"BN_NAME": "ACME"}))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearch_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestSearch_APIErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]any{"message": "resource not found"},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, ErrAPIError)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchSQL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/action/datastore_search_sql", r.URL.Path)
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Contains(t, params["sql"], "SELECT")
		json.NewEncoder(w).Encode(datastoreResponse(1, map[string]any{"BN_NAME": "ACME"}))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.SearchSQL(context.Background(), `SELECT * FROM "test-resource" LIMIT 1`)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
}

func TestResourceInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/action/resource_show", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": map[string]any{
				"id":     "test-resource",
				"name":   "Business Names",
				"format": "CSV",
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	info, err := client.ResourceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Business Names", info["name"])
}

func TestTestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(datastoreResponse(1, map[string]any{"BN_NAME": "ACME"}))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)
		assert.True(t, client.TestConnection(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)
		assert.False(t, client.TestConnection(context.Background()))
	})
}

func TestFetchAll_Pages(t *testing.T) {
	const total = 25
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))

		limit := int(params["limit"].(float64))
		offset := int(params["offset"].(float64))

		var rows []map[string]any
		for i := offset; i < offset+limit && i < total; i++ {
			rows = append(rows, map[string]any{"BN_NAME": fmt.Sprintf("BUSINESS %03d", i)})
		}
		json.NewEncoder(w).Encode(datastoreResponse(total, rows...))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	var lastFetched, lastTotal int
	result, err := client.FetchAll(context.Background(), 10, func(fetched, totalSeen int) {
		lastFetched = fetched
		lastTotal = totalSeen
	})
	require.NoError(t, err)

	assert.Len(t, result.Records, total)
	assert.Equal(t, total, result.Total)
	assert.Equal(t, total, lastFetched)
	assert.Equal(t, total, lastTotal)

	// Every record arrives exactly once.
	seen := make(map[string]bool)
	for _, record := range result.Records {
		assert.False(t, seen[record.Name], "duplicate record %s", record.Name)
		seen[record.Name] = true
	}
}

func TestFetchAll_EmptyDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(datastoreResponse(0))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.FetchAll(context.Background(), 10, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		year  int
	}{
		{name: "iso date", value: "2001-05-04", year: 2001},
		{name: "iso datetime", value: "2016-10-06T00:00:00", year: 2016},
		{name: "day first", value: "04/05/2001", year: 2001},
		{name: "empty", value: "", year: 1},
		{name: "garbage", value: "not a date", year: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := parseDate(tt.value)
			if tt.year == 1 {
				assert.True(t, ts.IsZero())
				return
			}
			assert.Equal(t, tt.year, ts.Year())
		})
	}
}
