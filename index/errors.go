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
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when creating an index from zero documents.
	ErrEmptyBatch = errors.New("cannot create index from empty batch")

	// ErrDimensionUnknown is returned when the first batch carries empty vectors.
	ErrDimensionUnknown = errors.New("cannot determine vector dimensionality")

	// ErrCorruptSnapshot indicates a snapshot that cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")
)

// DimensionError indicates a vector whose dimensionality does not match the index.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
