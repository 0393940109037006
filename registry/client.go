package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/poiesic/ausbin/core"
	"golang.org/x/sync/errgroup"
)

// allRecordsLimit is sent when a request asks for everything; the datastore
// treats it as "up to this many".
const allRecordsLimit = 100000

// fetchConcurrency bounds how many pages FetchAll requests at once.
const fetchConcurrency = 4

// Client talks to the CKAN datastore API with retry and backoff.
// It is safe for concurrent use.
type Client struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client. The config timeout is applied
// to it. Default is a fresh http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		if client == nil {
			client = &http.Client{}
		}
		c.http = client
		return nil
	}
}

// NewClient creates a registry client.
// The config is validated and normalized before use.
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		http:   &http.Client{},
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.http.Timeout = config.Timeout
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() *Config {
	return c.config
}

// Search runs one datastore_search call.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	limit := req.Limit
	switch {
	case limit == 0:
		limit = c.config.DefaultLimit
	case limit < 0:
		limit = allRecordsLimit
	}

	params := map[string]any{
		"resource_id": c.config.ResourceID,
		"limit":       limit,
		"offset":      req.Offset,
	}
	if req.Query != "" {
		params["q"] = req.Query
	}
	if len(req.Filters) > 0 {
		params["filters"] = req.Filters
	}

	var result datastoreResult
	if err := c.call(ctx, "datastore_search", params, &result); err != nil {
		return nil, err
	}

	return decodeResult(&result), nil
}

// SearchSQL executes a SQL query against the datastore via
// datastore_search_sql.
func (c *Client) SearchSQL(ctx context.Context, query string) (*SearchResult, error) {
	var result datastoreResult
	if err := c.call(ctx, "datastore_search_sql", map[string]any{"sql": query}, &result); err != nil {
		return nil, err
	}
	return decodeResult(&result), nil
}

// ResourceInfo fetches metadata about the configured datastore resource.
func (c *Client) ResourceInfo(ctx context.Context) (map[string]string, error) {
	var result resourceInfo
	if err := c.call(ctx, "resource_show", map[string]any{"id": c.config.ResourceID}, &result); err != nil {
		return nil, err
	}
	return map[string]string{
		"id":            result.ID,
		"name":          result.Name,
		"description":   result.Description,
		"format":        result.Format,
		"last_modified": result.LastModified,
	}, nil
}

// TestConnection checks API reachability with a minimal request.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.Search(ctx, SearchRequest{Limit: 1})
	if err != nil {
		c.logger.Error("connection test failed", "err", err)
		return false
	}
	return true
}

// FetchAll pages through the entire dataset. Pages after the first are
// requested concurrently, bounded by fetchConcurrency. The optional
// progress callback receives (fetched, total) as pages complete.
func (c *Client) FetchAll(ctx context.Context, pageSize int, progress func(fetched, total int)) (*SearchResult, error) {
	if pageSize <= 0 {
		pageSize = 10000
	}

	first, err := c.Search(ctx, SearchRequest{Limit: pageSize})
	if err != nil {
		return nil, err
	}
	if first.Total == 0 || len(first.Records) == 0 {
		return nil, ErrEmptyDataset
	}
	if progress != nil {
		progress(len(first.Records), first.Total)
	}
	if len(first.Records) >= first.Total {
		return first, nil
	}

	pages := (first.Total - len(first.Records) + pageSize - 1) / pageSize
	results := make([]*SearchResult, pages)

	var mu sync.Mutex
	fetched := len(first.Records)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := 0; i < pages; i++ {
		i := i
		g.Go(func() error {
			page, err := c.Search(gctx, SearchRequest{
				Limit:  pageSize,
				Offset: len(first.Records) + i*pageSize,
			})
			if err != nil {
				return err
			}
			results[i] = page

			if progress != nil {
				mu.Lock()
				fetched += len(page.Records)
				progress(fetched, first.Total)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := &SearchResult{Records: first.Records, Total: first.Total}
	for _, page := range results {
		all.Records = append(all.Records, page.Records...)
	}
	return all, nil
}

// call posts params to the named CKAN action, retrying transport failures
// with exponential backoff, and decodes the result payload into out.
func (c *Client) call(ctx context.Context, action string, params map[string]any, out any) error {
	endpoint, err := url.JoinPath(c.config.BaseURL, action)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		c.logger.Info("registry request", "action", action, "attempt", attempt)

		envelope, err := c.post(ctx, endpoint, body)
		if err == nil {
			if !envelope.Success {
				return fmt.Errorf("%w: %s", ErrAPIError, string(envelope.Error))
			}
			if err := json.Unmarshal(envelope.Result, out); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
			}
			return nil
		}

		lastErr = err
		c.logger.Warn("registry request failed", "action", action, "attempt", attempt, "err", err)

		if attempt == c.config.MaxRetries {
			break
		}

		// Exponential backoff
		delay := c.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRequestFailed, c.config.MaxRetries, lastErr)
}

// post performs a single HTTP attempt. Non-2xx statuses and malformed JSON
// are retryable transport failures; CKAN-level errors are reported through
// the envelope and are not retried.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*ckanEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ausbin/1.0")
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", c.config.APIToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var envelope ckanEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &envelope, nil
}

// decodeResult converts raw datastore rows into domain records.
func decodeResult(result *datastoreResult) *SearchResult {
	fetchedAt := time.Now().UTC()
	out := &SearchResult{
		Records: make([]*core.BusinessName, 0, len(result.Records)),
		Total:   result.Total,
	}
	for _, row := range result.Records {
		out.Records = append(out.Records, recordFromRow(row, fetchedAt))
	}
	return out
}
