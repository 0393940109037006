package registry

import (
	"errors"
	"strings"
	"time"
)

// Config holds connection settings for the CKAN datastore API.
type Config struct {
	// BaseURL is the CKAN action API root.
	// Example: "https://data.gov.au/data/api/action/"
	BaseURL string

	// ResourceID identifies the business names datastore resource.
	ResourceID string

	// APIToken is an optional token sent in the Authorization header.
	APIToken string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// MaxRetries is the number of attempts per request.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration

	// DefaultLimit is the record limit applied when a request specifies none.
	DefaultLimit int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the CKAN action API root.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithResourceID sets the datastore resource identifier.
func WithResourceID(id string) ConfigOption {
	return func(c *Config) {
		c.ResourceID = id
	}
}

// WithAPIToken sets the Authorization token for authenticated requests.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the number of attempts per request.
func WithMaxRetries(retries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithRetryDelay sets the base delay for exponential backoff.
func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

// WithDefaultLimit sets the record limit used when a request specifies none.
func WithDefaultLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.DefaultLimit = limit
	}
}

// DefaultConfig returns a Config pointing at the public business names
// register on data.gov.au.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://data.gov.au/data/api/action/",
		ResourceID:   "55ad4b1c-5eeb-44ea-8b29-d410da431be3",
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Second,
		DefaultLimit: 100,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The base URL always ends with a slash so action names join cleanly.
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("registry config: BaseURL is required")
	}
	if c.ResourceID == "" {
		return errors.New("registry config: ResourceID is required")
	}
	if c.Timeout <= 0 {
		return errors.New("registry config: Timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("registry config: MaxRetries must be at least 1")
	}
	if c.DefaultLimit < 1 {
		return errors.New("registry config: DefaultLimit must be at least 1")
	}
	return nil
}
