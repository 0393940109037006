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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ausbin/core"
)

// Serializers are hand-written on the mus-go primitives: the record carries
// a dynamic Fields map whose shape only exists at runtime, so generated
// per-struct code cannot model it. Timestamps are stored as Unix
// microseconds; the zero time round-trips as such.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	bs := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), bs)
	return bs
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalBusinessName serializes a BusinessName to bytes.
func MarshalBusinessName(record *core.BusinessName) []byte {
	bs := make([]byte, sizeBusinessName(record))
	n := varint.Uint64.Marshal(uint64(record.Id), bs)
	n += ord.String.Marshal(record.Name, bs[n:])
	n += ord.String.Marshal(record.Status, bs[n:])
	n += ord.String.Marshal(record.State, bs[n:])
	n += marshalTime(record.RegistrationDate, bs[n:])
	n += marshalTime(record.RenewalDate, bs[n:])
	n += marshalTime(record.CancelDate, bs[n:])
	n += marshalTime(record.FetchedAt, bs[n:])
	n += varint.Int.Marshal(len(record.Fields), bs[n:])
	for key, value := range record.Fields {
		n += ord.String.Marshal(key, bs[n:])
		n += ord.String.Marshal(value, bs[n:])
	}
	return bs
}

// UnmarshalBusinessName deserializes a BusinessName from bytes.
func UnmarshalBusinessName(data []byte) (record *core.BusinessName, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
	}()

	record = &core.BusinessName{}
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.Id = core.ID(id)

	if record.Name, n, err = unmarshalStringAt(data, n); err != nil {
		return nil, err
	}
	if record.Status, n, err = unmarshalStringAt(data, n); err != nil {
		return nil, err
	}
	if record.State, n, err = unmarshalStringAt(data, n); err != nil {
		return nil, err
	}
	if record.RegistrationDate, n, err = unmarshalTimeAt(data, n); err != nil {
		return nil, err
	}
	if record.RenewalDate, n, err = unmarshalTimeAt(data, n); err != nil {
		return nil, err
	}
	if record.CancelDate, n, err = unmarshalTimeAt(data, n); err != nil {
		return nil, err
	}
	if record.FetchedAt, n, err = unmarshalTimeAt(data, n); err != nil {
		return nil, err
	}

	count, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	n += m

	if count > 0 {
		record.Fields = make(map[string]string, count)
		for i := 0; i < count; i++ {
			var key, value string
			if key, n, err = unmarshalStringAt(data, n); err != nil {
				return nil, err
			}
			if value, n, err = unmarshalStringAt(data, n); err != nil {
				return nil, err
			}
			record.Fields[key] = value
		}
	}

	return record, nil
}

// MarshalCacheMeta serializes a CacheMeta to bytes.
func MarshalCacheMeta(meta *CacheMeta) []byte {
	size := timeSize(meta.FetchedAt) + varint.Int.Size(meta.Total) + ord.String.Size(meta.Source)
	bs := make([]byte, size)
	n := marshalTime(meta.FetchedAt, bs)
	n += varint.Int.Marshal(meta.Total, bs[n:])
	ord.String.Marshal(meta.Source, bs[n:])
	return bs
}

// UnmarshalCacheMeta deserializes a CacheMeta from bytes.
func UnmarshalCacheMeta(data []byte) (*CacheMeta, error) {
	meta := &CacheMeta{}
	fetchedAt, n, err := unmarshalTimeAt(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	meta.FetchedAt = fetchedAt

	total, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	meta.Total = total
	n += m

	source, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	meta.Source = source

	return meta, nil
}

func sizeBusinessName(record *core.BusinessName) int {
	size := varint.Uint64.Size(uint64(record.Id))
	size += ord.String.Size(record.Name)
	size += ord.String.Size(record.Status)
	size += ord.String.Size(record.State)
	size += timeSize(record.RegistrationDate)
	size += timeSize(record.RenewalDate)
	size += timeSize(record.CancelDate)
	size += timeSize(record.FetchedAt)
	size += varint.Int.Size(len(record.Fields))
	for key, value := range record.Fields {
		size += ord.String.Size(key)
		size += ord.String.Size(value)
	}
	return size
}

func marshalTime(ts time.Time, bs []byte) int {
	return varint.Int64.Marshal(timeToMicros(ts), bs)
}

func timeSize(ts time.Time) int {
	return varint.Int64.Size(timeToMicros(ts))
}

func timeToMicros(ts time.Time) int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.UnixMicro()
}

func microsToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

func unmarshalStringAt(data []byte, offset int) (string, int, error) {
	v, n, err := ord.String.Unmarshal(data[offset:])
	return v, offset + n, err
}

func unmarshalTimeAt(data []byte, offset int) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(data[offset:])
	if err != nil {
		return time.Time{}, offset, err
	}
	return microsToTime(micros), offset + n, nil
}
