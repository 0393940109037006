package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dataset"
	"github.com/poiesic/ausbin/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed record set through a real matcher.
type fakeSource struct {
	records []*core.BusinessName
	matcher *match.Matcher
}

func (f *fakeSource) Names(ctx context.Context, refresh bool) ([]*core.BusinessName, error) {
	return f.records, nil
}

func (f *fakeSource) Search(ctx context.Context, term string, filters ...dataset.Filter) ([]*core.MatchResult, error) {
	return f.matcher.Match(dataset.Apply(f.records, filters...), term), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	matcher, err := match.NewMatcher()
	require.NoError(t, err)

	source := &fakeSource{
		records: []*core.BusinessName{
			{Name: "ACME", Status: "Registered", State: "NSW", RegistrationDate: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "ACME TRADING", Status: "Registered", State: "VIC", RegistrationDate: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "SUNSET BAKERY", Status: "Cancelled", State: "NSW", RegistrationDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		matcher: matcher,
	}

	service, err := NewService(source)
	require.NoError(t, err)
	return service
}

func TestNewServiceRequiresSource(t *testing.T) {
	_, err := NewService(nil)
	assert.ErrorIs(t, err, ErrSourceRequired)
}

func TestIndexPage(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Business Names Explorer")
	assert.Contains(t, body, "Records: 3")
	assert.Contains(t, body, "Registered: 2")
}

func TestIndexUnknownPathIs404(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchTable(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ACME", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ACME TRADING")
	assert.Contains(t, body, "100.0")
	assert.Contains(t, body, "95.0")
	assert.Contains(t, body, "Exact")
}

func TestSearchNoMatchesState(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ZZZZZZZZZZ&display=barchart", nil))

	// Empty results render the no-matches page even for chart displays
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matches found")
}

func TestSearchChartDisplay(t *testing.T) {
	service := newTestService(t)

	for _, display := range []string{"barchart", "piechart", "histogram", "wordcloud", "chart", "timeline"} {
		t.Run(display, func(t *testing.T) {
			rec := httptest.NewRecorder()
			service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ACME&display="+display, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "echarts")
		})
	}
}

func TestSearchFilters(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ACME&state=VIC", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ACME TRADING")
	assert.Equal(t, 1, strings.Count(body, "<td>ACME"), "NSW record filtered out")
}

func TestSearchBadDate(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ACME&date-from=notadate", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPISearch(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=ACME", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Term    string `json:"term"`
		Count   int    `json:"count"`
		Results []struct {
			Name     string  `json:"name"`
			Score    float64 `json:"score"`
			Category string  `json:"category"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, "ACME", payload.Term)
	require.Equal(t, 2, payload.Count)
	assert.Equal(t, "ACME", payload.Results[0].Name)
	assert.Equal(t, 100.0, payload.Results[0].Score)
	assert.Equal(t, "Exact", payload.Results[0].Category)
	assert.Equal(t, 95.0, payload.Results[1].Score)
}

func TestAPISearchLimit(t *testing.T) {
	service := newTestService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=ACME&limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Count)
}
