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


package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halcyondata/paperdex/core"
	"github.com/mus-format/mus-go/varint"
)

// snapshotVersion tags the binary layout so future layout changes can be
// detected instead of silently misread.
const snapshotVersion byte = 1

// Snapshot serializes the full index state to an opaque blob: version tag,
// dimensionality, the documents, and the exported HNSW graph. The blob is the
// checkpoint payload and the on-disk index format.
func (ix *Index) Snapshot() ([]byte, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var graphBuf bytes.Buffer
	if err := ix.graph.Export(&graphBuf); err != nil {
		return nil, fmt.Errorf("export graph: %w", err)
	}
	graphBytes := graphBuf.Bytes()

	size := 1 + varint.Int.Size(ix.dims) + varint.Int.Size(len(ix.docs))
	for _, doc := range ix.docs {
		size += core.DocumentMUS.Size(doc)
	}
	size += varint.Int.Size(len(graphBytes)) + len(graphBytes)

	bs := make([]byte, size)
	bs[0] = snapshotVersion
	n := 1
	n += varint.Int.Marshal(ix.dims, bs[n:])
	n += varint.Int.Marshal(len(ix.docs), bs[n:])
	for _, doc := range ix.docs {
		n += core.DocumentMUS.Marshal(doc, bs[n:])
	}
	n += varint.Int.Marshal(len(graphBytes), bs[n:])
	copy(bs[n:], graphBytes)

	return bs, nil
}

// Restore reconstructs an index from a Snapshot blob.
func Restore(data []byte) (*Index, error) {
	if len(data) == 0 {
		return nil, ErrCorruptSnapshot
	}
	if data[0] != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d: %w", ErrCorruptSnapshot, data[0], core.ErrUnknownSchemaVersion)
	}

	n := 1
	dims, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensionality %d", ErrCorruptSnapshot, dims)
	}

	count, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: invalid document count", ErrCorruptSnapshot)
	}

	docs := make([]core.Document, count)
	for i := 0; i < count; i++ {
		docs[i], n1, err = core.DocumentMUS.Unmarshal(data[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrCorruptSnapshot, i, err)
		}
	}

	graphLen, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil || graphLen < 0 || graphLen > len(data)-n {
		return nil, fmt.Errorf("%w: invalid graph length", ErrCorruptSnapshot)
	}

	graph := newGraph()
	if err := graph.Import(bytes.NewReader(data[n : n+graphLen])); err != nil {
		return nil, fmt.Errorf("%w: import graph: %w", ErrCorruptSnapshot, err)
	}

	return &Index{
		graph: graph,
		docs:  docs,
		dims:  dims,
	}, nil
}

// Save persists the index to disk atomically: the snapshot is written to a
// temp file in the same directory and renamed into place, so a crash mid-write
// never leaves a partial index at path.
func (ix *Index) Save(path string) error {
	snapshot, err := ix.Snapshot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, snapshot, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write index file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename index file: %w", err)
	}

	return nil
}

// Load reads a persisted index from disk.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}
	return Restore(data)
}
