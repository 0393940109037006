package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dataset"
)

// DataSource provides the records and search results the dashboard serves.
// The root Explorer satisfies it.
type DataSource interface {
	Names(ctx context.Context, refresh bool) ([]*core.BusinessName, error)
	Search(ctx context.Context, term string, filters ...dataset.Filter) ([]*core.MatchResult, error)
}

// Service serves the dashboard HTTP endpoints.
type Service struct {
	// embedded servemux allows Service to act as one also
	*http.ServeMux

	source DataSource
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(s *Service) error

// WithLogger sets the logger. Passing nil falls back to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a dashboard service over the given data source.
func NewService(source DataSource, options ...ServiceOption) (*Service, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	s := &Service{
		ServeMux: http.NewServeMux(),
		source:   source,
		logger:   slog.Default(),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	s.HandleFunc("/", s.indexHandler)
	s.HandleFunc("/search", s.searchHandler)
	s.HandleFunc("/api/search", s.apiSearchHandler)
	return s, nil
}

func (s *Service) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	records, err := s.source.Names(r.Context(), false)
	if err != nil {
		s.logger.Error("loading records failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := dataset.Summarize(records)
	data := indexData{
		Total:       stats.Total,
		UniqueNames: stats.UniqueNames,
		Statuses:    stats.StatusDistribution,
	}
	if !stats.EarliestRegistered.IsZero() {
		data.Earliest = stats.EarliestRegistered.Format("2006-01-02")
		data.Latest = stats.LatestRegistered.Format("2006-01-02")
	}

	s.renderTemplate(w, indexTemplate, data)
}

func (s *Service) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := query.Get("q")
	display := query.Get("display")

	results, err := s.search(r.Context(), term, query.Get("status"), query.Get("state"), query.Get("date-from"))
	if err != nil {
		s.logger.Error("search failed", "term", term, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if limit := parseLimit(query.Get("limit")); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if chart := ChartForDisplay(display, results); chart != nil && len(results) > 0 {
		if err := chart.Render(w); err != nil {
			s.logger.Error("chart render failed", "display", display, "error", err)
		}
		return
	}

	data := searchData{Term: term, Results: results}
	s.renderTemplate(w, searchTemplate, data)
}

func (s *Service) apiSearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := query.Get("q")

	results, err := s.search(r.Context(), term, query.Get("status"), query.Get("state"), query.Get("date-from"))
	if err != nil {
		s.logger.Error("search failed", "term", term, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if limit := parseLimit(query.Get("limit")); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	type apiResult struct {
		Name     string  `json:"name"`
		Status   string  `json:"status"`
		State    string  `json:"state"`
		Score    float64 `json:"score"`
		Category string  `json:"category"`
	}
	payload := struct {
		Term    string      `json:"term"`
		Count   int         `json:"count"`
		Results []apiResult `json:"results"`
	}{Term: term, Results: []apiResult{}}

	for _, result := range results {
		payload.Results = append(payload.Results, apiResult{
			Name:     result.Record.Name,
			Status:   result.Record.Status,
			State:    result.Record.State,
			Score:    result.Score,
			Category: result.Category.String(),
		})
	}
	payload.Count = len(payload.Results)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Service) search(ctx context.Context, term, status, state, dateFrom string) ([]*core.MatchResult, error) {
	var filters []dataset.Filter
	if status != "" {
		filters = append(filters, dataset.ByStatus(status))
	}
	if state != "" {
		filters = append(filters, dataset.ByState(state))
	}
	if dateFrom != "" {
		since, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid date-from %q: %w", dateFrom, err)
		}
		filters = append(filters, dataset.RegisteredSince(since))
	}
	return s.source.Search(ctx, term, filters...)
}

func (s *Service) renderTemplate(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("template render failed", "error", err)
	}
}

func parseLimit(value string) int {
	if value == "" {
		return 0
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

type indexData struct {
	Total       int
	UniqueNames int
	Earliest    string
	Latest      string
	Statuses    []dataset.StatusCount
}

type searchData struct {
	Term    string
	Results []*core.MatchResult
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Business Names Explorer</title></head>
<body>
<h1>Business Names Explorer</h1>
<form action="/search" method="get">
  <input type="text" name="q" placeholder="Business name" autofocus>
  <select name="display">
    <option value="table">Table</option>
    <option value="barchart">Bar chart</option>
    <option value="piechart">Pie chart</option>
    <option value="histogram">Histogram</option>
    <option value="wordcloud">Word cloud</option>
    <option value="chart">Status chart</option>
    <option value="timeline">Registrations timeline</option>
  </select>
  <button type="submit">Search</button>
</form>
<h2>Dataset</h2>
<ul>
  <li>Records: {{.Total}}</li>
  <li>Unique names: {{.UniqueNames}}</li>
  {{if .Earliest}}<li>Registrations: {{.Earliest}} to {{.Latest}}</li>{{end}}
</ul>
{{if .Statuses}}
<h2>Status distribution</h2>
<ul>
{{range .Statuses}}  <li>{{.Status}}: {{.Count}}</li>
{{end}}</ul>
{{end}}
</body>
</html>
`))

var searchTemplate = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html>
<head><title>Results for {{.Term}}</title></head>
<body>
<h1>Results for &ldquo;{{.Term}}&rdquo;</h1>
<p><a href="/">New search</a></p>
{{if .Results}}
<table border="1" cellpadding="4">
  <tr><th>Name</th><th>Status</th><th>State</th><th>Registered</th><th>Score</th><th>Category</th></tr>
{{range .Results}}  <tr>
    <td>{{.Record.Name}}</td>
    <td>{{.Record.Status}}</td>
    <td>{{.Record.State}}</td>
    <td>{{if .Record.RegistrationDate.IsZero}}&mdash;{{else}}{{.Record.RegistrationDate.Format "2006-01-02"}}{{end}}</td>
    <td>{{printf "%.1f" .Score}}</td>
    <td>{{.Category}}</td>
  </tr>
{{end}}</table>
{{else}}
<p>No matches found.</p>
{{end}}
</body>
</html>
`))
