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
	"fmt"
	"strings"
	"time"
)

// ValidateResearchSession validates a ResearchSession according to domain rules.
//
// Validation rules:
//   - Goal must not be empty or whitespace-only
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - Answer (a timed-out query stores an empty answer)
//   - Sources (a failed retrieval stores none)
//   - ID (0 is valid before the repository assigns one)
func ValidateResearchSession(session *ResearchSession) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}

	if strings.TrimSpace(session.Goal) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptyGoal)
	}

	if !IsValidTimestamp(session.CreatedAt) {
		return fmt.Errorf("%w: timestamp cannot be in the future", ErrInvalidSession)
	}

	return nil
}

// IsValidTimestamp reports whether a timestamp is usable for persistence.
// Zero timestamps are valid; the repository fills them in at insert time.
func IsValidTimestamp(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	// Small allowance for clock skew between writers
	return !t.After(time.Now().UTC().Add(time.Minute))
}
