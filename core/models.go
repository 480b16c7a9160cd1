// Copyright 2025 Halcyon Data
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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is a single text record entering the indexing pipeline.
// Documents are produced by upstream collectors (paper retrieval, PDF
// extraction) and are treated as immutable once created.
type Document struct {
	Content  string
	Metadata map[string]string // Source annotations (e.g. "title", "url")
}

// PreparedDocument is a Document after preprocessing. Content is capped to
// the configured character limit; the annotation fields record whether and
// how much was cut.
type PreparedDocument struct {
	Document
	Truncated      bool
	OriginalLength int // Length of the original content in runes
}

// Fingerprint identifies an ordered document set by size and content digest.
// A checkpoint carries the fingerprint of the set it was taken over, so a
// resumed build can detect that the input changed and refuse the stale offset.
type Fingerprint struct {
	Count  int
	Digest string
}

// Equal reports whether two fingerprints describe the same document set.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Count == other.Count && f.Digest == other.Digest
}

// BuildProgress is a durable snapshot of an in-flight index build.
// Snapshot holds the serialized index covering exactly the first
// ProcessedCount prepared documents, in order, with no gaps.
type BuildProgress struct {
	ProcessedCount int
	Fingerprint    Fingerprint
	Snapshot       []byte // Opaque index snapshot
	UpdatedAt      time.Time
}

// ScoredDocument is a similarity-search hit with its relevance score.
type ScoredDocument struct {
	Document Document
	Score    float32
}

// ResearchSession is a completed query outcome persisted for later recall.
type ResearchSession struct {
	Id        ID
	Goal      string
	Answer    string
	Sources   []Document
	CreatedAt time.Time
}
