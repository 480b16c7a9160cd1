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

import "errors"

// Domain validation and serialization errors
var (
	// ErrEmptyGoal indicates a research session with no goal text.
	ErrEmptyGoal = errors.New("goal cannot be empty")

	// ErrInvalidSession indicates a ResearchSession failed validation.
	ErrInvalidSession = errors.New("invalid research session")

	// ErrShortBuffer indicates serialized data ended before the value was complete.
	ErrShortBuffer = errors.New("serialized data too short")

	// ErrUnknownSchemaVersion indicates serialized data with an unsupported version tag.
	ErrUnknownSchemaVersion = errors.New("unknown schema version")
)
