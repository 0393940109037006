package storage

import (
	"context"
	"time"

	"github.com/poiesic/ausbin/core"
)

// CacheMeta describes the cached dataset snapshot.
type CacheMeta struct {
	FetchedAt time.Time // When the snapshot was fetched from the registry
	Total     int       // Record count reported by the registry
	Source    string    // Resource identifier the snapshot came from
}

// NameRepository provides operations for the local business name cache.
// Implementations must be thread-safe and support concurrent access.
type NameRepository interface {
	// PutNames adds records to the cache, preserving insertion order.
	// Records whose content-based ID is already cached are skipped, so
	// re-ingesting an overlapping fetch is idempotent.
	// Returns the number of records actually stored.
	PutNames(ctx context.Context, records ...*core.BusinessName) (int, error)

	// GetName retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetName(ctx context.Context, id core.ID) (*core.BusinessName, error)

	// AllNames returns every cached record in insertion order.
	AllNames(ctx context.Context) ([]*core.BusinessName, error)

	// NamesByDateRange returns records where start <= RegistrationDate < end,
	// ordered by registration date. Records without a registration date are
	// never returned.
	NamesByDateRange(ctx context.Context, start, end time.Time) ([]*core.BusinessName, error)

	// Count returns the number of cached records.
	Count(ctx context.Context) (int, error)

	// Meta returns the snapshot metadata.
	// Returns ErrNoCache if no snapshot has been stored.
	Meta(ctx context.Context) (*CacheMeta, error)

	// SetMeta stores the snapshot metadata.
	SetMeta(ctx context.Context, meta *CacheMeta) error

	// Clear drops all cached records and metadata.
	Clear(ctx context.Context) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
