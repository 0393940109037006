package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/ausbin/match"
	"github.com/poiesic/ausbin/registry"
)

// fileConfig is the optional TOML configuration file. Every field overrides
// a built-in default; absent fields keep the defaults.
type fileConfig struct {
	Registry struct {
		BaseURL      string `toml:"base_url"`
		ResourceID   string `toml:"resource_id"`
		APIToken     string `toml:"api_token"`
		TimeoutSecs  int    `toml:"timeout_seconds"`
		MaxRetries   int    `toml:"max_retries"`
		RetryDelayMS int    `toml:"retry_delay_ms"`
	} `toml:"registry"`
	Matcher struct {
		Threshold int `toml:"threshold"`
		Limit     int `toml:"limit"`
		SampleCap int `toml:"sample_cap"`
	} `toml:"matcher"`
	Cache struct {
		Path string `toml:"path"`
	} `toml:"cache"`
}

// loadFileConfig reads a TOML config file. An empty path returns an empty
// config without error.
func loadFileConfig(path string) (*fileConfig, error) {
	config := &fileConfig{}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// registryConfig builds the registry configuration from the file config.
func (fc *fileConfig) registryConfig() *registry.Config {
	var opts []registry.ConfigOption
	if fc.Registry.BaseURL != "" {
		opts = append(opts, registry.WithBaseURL(fc.Registry.BaseURL))
	}
	if fc.Registry.ResourceID != "" {
		opts = append(opts, registry.WithResourceID(fc.Registry.ResourceID))
	}
	if fc.Registry.APIToken != "" {
		opts = append(opts, registry.WithAPIToken(fc.Registry.APIToken))
	}
	if fc.Registry.TimeoutSecs > 0 {
		opts = append(opts, registry.WithTimeout(time.Duration(fc.Registry.TimeoutSecs)*time.Second))
	}
	if fc.Registry.MaxRetries > 0 {
		opts = append(opts, registry.WithMaxRetries(fc.Registry.MaxRetries))
	}
	if fc.Registry.RetryDelayMS > 0 {
		opts = append(opts, registry.WithRetryDelay(time.Duration(fc.Registry.RetryDelayMS)*time.Millisecond))
	}
	return registry.NewConfig(opts...)
}

// matcherOptions builds match engine options from the file config plus the
// command line values. Command line values win.
func (fc *fileConfig) matcherOptions(threshold, limit int) []match.Option {
	if threshold == 0 {
		threshold = fc.Matcher.Threshold
	}
	if limit == 0 {
		limit = fc.Matcher.Limit
	}

	var opts []match.Option
	if threshold > 0 {
		opts = append(opts, match.WithThreshold(threshold))
	}
	if limit > 0 {
		opts = append(opts, match.WithLimit(limit))
	}
	if fc.Matcher.SampleCap > 0 {
		opts = append(opts, match.WithSampleCap(fc.Matcher.SampleCap))
	}
	return opts
}

// cachePath resolves the cache directory: config file first, then the user
// cache directory.
func (fc *fileConfig) cachePath() (string, error) {
	if fc.Cache.Path != "" {
		return fc.Cache.Path, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return base + string(os.PathSeparator) + "ausbin", nil
}
