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


// Package ingest builds persisted vector indexes from document sequences.
//
// The Builder drives preprocessing, batch embedding, incremental insertion,
// and per-batch checkpointing under a global wall-clock deadline. A build
// interrupted by a crash, a batch failure, or the deadline leaves a durable
// checkpoint behind; re-invoking the build with the same documents resumes
// from the checkpoint instead of re-embedding committed batches. Checkpoints
// are bound to a fingerprint of the input set, so a changed input discards
// the checkpoint rather than resuming at a misaligned offset.
package ingest
