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


package ingest

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCheckpointStoreRequired is returned when a checkpoint store is not provided.
	ErrCheckpointStoreRequired = errors.New("checkpoint store required")

	// ErrNoDocuments is returned when a build is invoked with no documents.
	ErrNoDocuments = errors.New("no documents to index")

	// ErrBuildTimeout indicates the build deadline elapsed before all batches
	// completed. Progress up to the last completed batch is checkpointed; a
	// fresh invocation resumes from there.
	ErrBuildTimeout = errors.New("build deadline exceeded")
)

// TimeoutError reports a build stopped by its deadline.
// It unwraps to ErrBuildTimeout.
type TimeoutError struct {
	Processed int // Documents committed to the index and checkpointed
	Total     int // Documents in the prepared sequence
	Deadline  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("build deadline of %s exceeded after %d of %d documents; rerun to resume from checkpoint",
		e.Deadline, e.Processed, e.Total)
}

func (e *TimeoutError) Unwrap() error {
	return ErrBuildTimeout
}

// BuildError reports a build stopped by a batch failure.
// Progress before the failing batch is checkpointed, so a fresh invocation
// resumes past the committed batches. It unwraps to the underlying cause.
type BuildError struct {
	Processed int // Documents committed to the index and checkpointed
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index build failed after %d documents: %v", e.Processed, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
