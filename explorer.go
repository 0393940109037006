// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ausbin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dataset"
	"github.com/poiesic/ausbin/match"
	"github.com/poiesic/ausbin/registry"
	"github.com/poiesic/ausbin/storage"
	"github.com/poiesic/ausbin/storage/badger"
)

const defaultFetchPageSize = 10000

// Explorer wires the registry client, the local cache and the match engine
// into one entry point. The CLI and the dashboard both sit on top of it.
type Explorer struct {
	client   *registry.Client
	backend  *badger.Backend
	cache    storage.NameRepository
	matcher  *match.Matcher
	logger   *slog.Logger
	progress func(fetched, total int)
}

// ExplorerOption configures an Explorer.
type ExplorerOption func(*explorerOptions)

type explorerOptions struct {
	registryConfig *registry.Config
	matcherOptions []match.Option
	inMemory       bool
	progress       func(fetched, total int)
	logger         *slog.Logger
}

// WithRegistryConfig sets the registry configuration. Passing nil keeps the
// defaults.
func WithRegistryConfig(config *registry.Config) ExplorerOption {
	return func(o *explorerOptions) {
		if config != nil {
			o.registryConfig = config
		}
	}
}

// WithMatcherOptions forwards options to the match engine.
func WithMatcherOptions(opts ...match.Option) ExplorerOption {
	return func(o *explorerOptions) {
		o.matcherOptions = append(o.matcherOptions, opts...)
	}
}

// WithInMemoryCache uses an in-memory cache instead of a directory on disk.
func WithInMemoryCache() ExplorerOption {
	return func(o *explorerOptions) {
		o.inMemory = true
	}
}

// WithFetchProgress installs a callback invoked as full-dataset fetches
// advance.
func WithFetchProgress(progress func(fetched, total int)) ExplorerOption {
	return func(o *explorerOptions) {
		o.progress = progress
	}
}

// WithExplorerLogger sets the logger. Passing nil falls back to
// slog.Default().
func WithExplorerLogger(logger *slog.Logger) ExplorerOption {
	return func(o *explorerOptions) {
		o.logger = logger
	}
}

// NewExplorer creates an Explorer with its cache at cachePath.
func NewExplorer(cachePath string, opts ...ExplorerOption) (*Explorer, error) {
	options := &explorerOptions{
		registryConfig: registry.DefaultConfig(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	client, err := registry.NewClient(options.registryConfig, registry.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	matcher, err := match.NewMatcher(options.matcherOptions...)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(cachePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	cache, err := badger.NewNameRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Explorer{
		client:   client,
		backend:  backend,
		cache:    cache,
		matcher:  matcher,
		logger:   options.logger,
		progress: options.progress,
	}, nil
}

// Close releases the cache and its backend.
func (e *Explorer) Close() error {
	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing cache", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing cache backend", "err", err)
		return err
	}
	return nil
}

// Cache exposes the underlying name repository.
func (e *Explorer) Cache() storage.NameRepository {
	return e.cache
}

// Client exposes the underlying registry client.
func (e *Explorer) Client() *registry.Client {
	return e.client
}

// Names returns the full record set, serving from the cache when populated.
// With refresh set, the cache is repopulated from the registry first.
func (e *Explorer) Names(ctx context.Context, refresh bool) ([]*core.BusinessName, error) {
	if !refresh {
		if _, err := e.cache.Meta(ctx); err == nil {
			return e.cache.AllNames(ctx)
		} else if !errors.Is(err, storage.ErrNoCache) {
			return nil, err
		}
	}

	result, err := e.client.FetchAll(ctx, defaultFetchPageSize, e.progress)
	if err != nil {
		return nil, err
	}

	stored, err := e.cache.PutNames(ctx, result.Records...)
	if err != nil {
		return nil, err
	}
	e.logger.Info("dataset cached", "fetched", len(result.Records), "stored", stored)

	meta := &storage.CacheMeta{
		FetchedAt: time.Now().UTC(),
		Total:     result.Total,
		Source:    e.client.Config().ResourceID,
	}
	if err := e.cache.SetMeta(ctx, meta); err != nil {
		return nil, err
	}

	return e.cache.AllNames(ctx)
}

// Search ranks the record set against a term, applying any pre-filters
// before the match passes run.
func (e *Explorer) Search(ctx context.Context, term string, filters ...dataset.Filter) ([]*core.MatchResult, error) {
	records, err := e.Names(ctx, false)
	if err != nil {
		return nil, err
	}
	return e.matcher.Match(dataset.Apply(records, filters...), term), nil
}

// Stats summarizes the cached record set.
func (e *Explorer) Stats(ctx context.Context) (*dataset.Stats, error) {
	records, err := e.Names(ctx, false)
	if err != nil {
		return nil, err
	}
	return dataset.Summarize(records), nil
}

// Meta returns the cache snapshot metadata, or storage.ErrNoCache when the
// cache is empty.
func (e *Explorer) Meta(ctx context.Context) (*storage.CacheMeta, error) {
	return e.cache.Meta(ctx)
}

// ClearCache drops all cached records and metadata.
func (e *Explorer) ClearCache(ctx context.Context) error {
	return e.cache.Clear(ctx)
}
