package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/ausbin/core"
)

// Key prefixes for different data types
const (
	nameRecordPrefix     = "biznam"
	nameRecordIDPrefix   = "biznami"
	nameRecordDatePrefix = "biznamd"
	nameRecordSeq        = "biznamseq"
	cacheMetaKey         = "bizmeta"
)

// makeNameKey generates the primary key for a record by its insertion
// sequence. Sequence numbers are BigEndian so key order is insertion order.
func makeNameKey(seq uint64) []byte {
	prefix := nameRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeNameIDKey generates a key for the content-ID index.
func makeNameIDKey(id core.ID) []byte {
	prefix := nameRecordIDPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeNameDateKey generates a composite key for the registration date index.
// Format: prefix:timestamp:seq
func makeNameDateKey(timestamp time.Time, seq uint64) []byte {
	prefix := nameRecordDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(dateMicros(timestamp)))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialNameDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialNameDateKey(timestamp time.Time) []byte {
	prefix := nameRecordDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(dateMicros(timestamp)))
	return buf
}

// dateMicros maps a timestamp to its index representation. The zero time
// maps to zero so unregistered dates sort first instead of wrapping around.
func dateMicros(ts time.Time) int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.UnixMicro()
}

// encodeSeq serializes a sequence number for use as an index value.
func encodeSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

// decodeSeq deserializes a sequence number from an index value.
func decodeSeq(val []byte) uint64 {
	if len(val) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(val)
}
