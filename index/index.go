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
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"
	"github.com/halcyondata/paperdex/core"
)

// HNSW parameters. M and EfSearch follow the coder/hnsw recommendations.
const (
	defaultM        = 16
	defaultEfSearch = 20
	defaultMl       = 0.25
)

// Index is a searchable vector index over documents. Documents are keyed by
// insertion order, so the graph key doubles as the position in the docs slice.
//
// Writes (Add) and reads (Search) are guarded by an RWMutex: a build owns the
// index exclusively while constructing it, and once complete the index is safe
// for concurrent read-only queries.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	docs  []core.Document
	dims  int
}

func newGraph() *hnsw.Graph[uint64] {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = defaultM
	graph.EfSearch = defaultEfSearch
	graph.Ml = defaultMl
	return graph
}

// FromBatch creates a new index from the first batch of documents and their
// embedding vectors. This is the only way to construct a fresh index; later
// batches are added incrementally with Add. The vector dimensionality of the
// first batch fixes the dimensionality of the index.
func FromBatch(docs []core.Document, vectors [][]float32) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("documents and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	if len(vectors[0]) == 0 {
		return nil, ErrDimensionUnknown
	}

	ix := &Index{
		graph: newGraph(),
		dims:  len(vectors[0]),
	}
	if err := ix.Add(docs, vectors); err != nil {
		return nil, err
	}
	return ix, nil
}

// Add inserts a batch of documents with their embedding vectors.
// Insertion order is preserved; vectors are normalized for cosine similarity.
func (ix *Index) Add(docs []core.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, v := range vectors {
		if len(v) != ix.dims {
			return &DimensionError{Expected: ix.dims, Got: len(v)}
		}
	}

	for i, doc := range docs {
		key := uint64(len(ix.docs))

		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		normalizeVectorInPlace(vec)

		ix.graph.Add(hnsw.MakeNode(key, vec))
		ix.docs = append(ix.docs, doc)
	}

	return nil
}

// Search returns up to k documents nearest to the query vector, ordered by
// descending similarity score. Safe for concurrent use with other searches.
func (ix *Index) Search(query []float32, k int) ([]core.ScoredDocument, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(query) != ix.dims {
		return nil, &DimensionError{Expected: ix.dims, Got: len(query)}
	}
	if k <= 0 || ix.graph.Len() == 0 {
		return []core.ScoredDocument{}, nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeVectorInPlace(normalized)

	nodes := ix.graph.Search(normalized, k)

	results := make([]core.ScoredDocument, 0, len(nodes))
	for _, node := range nodes {
		if node.Key >= uint64(len(ix.docs)) {
			continue
		}
		distance := ix.graph.Distance(normalized, node.Value)
		results = append(results, core.ScoredDocument{
			Document: ix.docs[node.Key],
			// Cosine distance ranges 0..2; map to a 0..1 similarity score
			Score: 1.0 - distance/2.0,
		})
	}

	return results, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Dimensions returns the vector dimensionality of the index.
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dims
}

// normalizeVectorInPlace normalizes a vector to unit length in place.
func normalizeVectorInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	invMagnitude := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= invMagnitude
	}
}
