package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/halcyondata/paperdex/core"
)

// Key prefixes for different data types
const (
	sessionPrefix     = "sesrec"
	sessionDatePrefix = "sesrecd"
	sessionIDSeq      = "sesrecseq"
)

// makeSessionKey generates a key for a research session by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionPrefix, id))
}

// makeSessionDateKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id
func makeSessionDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := sessionDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
