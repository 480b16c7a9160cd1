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


package storage

import (
	"context"

	"github.com/halcyondata/paperdex/core"
)

// CheckpointStore persists build progress keyed by the build's destination
// path. Two independent destinations never share a checkpoint.
type CheckpointStore interface {
	// Load retrieves the checkpoint for a destination.
	// Returns nil, nil if no usable checkpoint exists; a corrupt or
	// unreadable checkpoint is logged and treated as absent, never fatal.
	Load(destination string) (*core.BuildProgress, error)

	// Save durably persists progress for a destination. The write is atomic
	// with respect to process crash: a reader observes either the previous
	// checkpoint or the new one, never a partial write.
	Save(destination string, progress *core.BuildProgress) error

	// Delete removes the checkpoint for a destination.
	// Idempotent: deleting an absent checkpoint is not an error.
	Delete(destination string) error
}

// SessionRepository persists completed research sessions.
type SessionRepository interface {
	// AddSession stores a session, assigning its ID and creation time.
	AddSession(ctx context.Context, session *core.ResearchSession) (*core.ResearchSession, error)

	// ListSessions returns all sessions ordered by creation time, oldest first.
	ListSessions(ctx context.Context) ([]*core.ResearchSession, error)

	// LastSession returns the most recently created session.
	// Returns nil, nil if no sessions exist.
	LastSession(ctx context.Context) (*core.ResearchSession, error)

	// Close releases repository resources.
	Close() error
}
