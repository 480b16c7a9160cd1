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


// Package index provides a persistent vector similarity index over documents.
//
// The Index type wraps an HNSW graph with cosine distance. An index is
// created from its first batch of documents and grown by incremental batch
// insertion; at any point its full state can be captured as an opaque binary
// snapshot, which is also the on-disk format. During construction an index is
// owned exclusively by its builder; once complete it supports concurrent
// read-only searches.
package index
