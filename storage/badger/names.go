package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/storage"
)

// putBatchSize bounds the number of records written per transaction so a
// full register ingest stays under BadgerDB's transaction size limit.
const putBatchSize = 1000

// NameRepository implements storage.NameRepository for BadgerDB.
//
// Records are stored under sequence-numbered primary keys so iteration
// order matches insertion order. A content-ID index supports lookups and
// idempotent re-ingest, and a registration date index supports range queries.
type NameRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.NameRepository = (*NameRepository)(nil)

// NewNameRepository creates a new NameRepository.
func NewNameRepository(backend *Backend) (*NameRepository, error) {
	seq, err := backend.GetSequence(nameRecordSeq)
	if err != nil {
		return nil, err
	}

	return &NameRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the sequence.
func (r *NameRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *NameRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutNames adds records to the cache in batches, skipping records whose
// content ID is already stored. Returns the number of records stored.
func (r *NameRepository) PutNames(ctx context.Context, records ...*core.BusinessName) (int, error) {
	stored := 0
	for batchStart := 0; batchStart < len(records); batchStart += putBatchSize {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		batch := records[batchStart:min(batchStart+putBatchSize, len(records))]
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, record := range batch {
				exists, err := r.hasID(tx, record.Id)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				nextSeq, err := r.seq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextSeq == 0 {
					nextSeq, err = r.seq.Next()
					if err != nil {
						return err
					}
				}

				// Stamp a copy; the caller's record stays untouched
				if record.FetchedAt.IsZero() {
					clone := *record
					clone.FetchedAt = time.Now().UTC()
					record = &clone
				}

				// Store primary record
				key := makeNameKey(nextSeq)
				value := storage.MarshalBusinessName(record)
				if err := tx.Set(key, value); err != nil {
					return err
				}

				// Update content-ID index
				if err := tx.Set(makeNameIDKey(record.Id), encodeSeq(nextSeq)); err != nil {
					return err
				}

				// Update date index; records without a registration date
				// are not range-queryable
				if !record.RegistrationDate.IsZero() {
					dateKey := makeNameDateKey(record.RegistrationDate, nextSeq)
					if err := tx.Set(dateKey, encodeSeq(nextSeq)); err != nil {
						return err
					}
				}

				stored++
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return stored, err
		}
	}
	return stored, nil
}

// GetName retrieves a single record by its content ID.
func (r *NameRepository) GetName(ctx context.Context, id core.ID) (*core.BusinessName, error) {
	var result *core.BusinessName
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seq, err := r.readSeq(tx, makeNameIDKey(id))
		if err != nil {
			return err
		}
		if seq == 0 {
			return storage.ErrNotFound
		}
		result, err = r.readName(tx, makeNameKey(seq))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// AllNames returns every cached record in insertion order.
func (r *NameRepository) AllNames(ctx context.Context) ([]*core.BusinessName, error) {
	var results []*core.BusinessName
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(nameRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.BusinessName
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalBusinessName(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// NamesByDateRange returns records registered within [start, end), ordered
// by registration date.
func (r *NameRepository) NamesByDateRange(ctx context.Context, start, end time.Time) ([]*core.BusinessName, error) {
	var results []*core.BusinessName
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialNameDateKey(start)
		endKey := makePartialNameDateKey(end)
		prefix := []byte(nameRecordDatePrefix + ":")

		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}
			if slices.Compare(key[:len(endKey)], endKey) >= 0 {
				break
			}

			// Read the sequence number from the index
			var seq uint64
			if err := iter.Item().Value(func(val []byte) error {
				seq = decodeSeq(val)
				return nil
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readName(tx, makeNameKey(seq))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// Count returns the number of cached records.
func (r *NameRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(nameRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Meta returns the snapshot metadata.
func (r *NameRepository) Meta(ctx context.Context) (*storage.CacheMeta, error) {
	var meta *storage.CacheMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(cacheMetaKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNoCache
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalCacheMeta(val)
			return unmarshalErr
		})
	}, false)
	return meta, err
}

// SetMeta stores the snapshot metadata.
func (r *NameRepository) SetMeta(ctx context.Context, meta *storage.CacheMeta) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(cacheMetaKey), storage.MarshalCacheMeta(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear drops all cached records, indexes and metadata.
func (r *NameRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefixes(
		[]byte(nameRecordPrefix+":"),
		[]byte(nameRecordIDPrefix+":"),
		[]byte(nameRecordDatePrefix+":"),
		[]byte(cacheMetaKey),
	)
}

// Helper methods

// readName reads a record from the transaction. Returns nil when the key
// doesn't exist.
func (r *NameRepository) readName(tx *badger.Txn, key []byte) (*core.BusinessName, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.BusinessName
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalBusinessName(val)
		return unmarshalErr
	})
	return record, err
}

// readSeq reads a sequence number from an index key. Returns 0 when the key
// doesn't exist.
func (r *NameRepository) readSeq(tx *badger.Txn, key []byte) (uint64, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var seq uint64
	err = item.Value(func(val []byte) error {
		seq = decodeSeq(val)
		return nil
	})
	return seq, err
}

// hasID reports whether a content ID is already stored.
func (r *NameRepository) hasID(tx *badger.Txn, id core.ID) (bool, error) {
	_, err := tx.Get(makeNameIDKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
