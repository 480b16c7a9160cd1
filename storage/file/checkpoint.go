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


package file

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-crypt/x/blake2b"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/storage"
)

const (
	checkpointDirName  = "checkpoints"
	checkpointFileBase = "vector_store_checkpoint"
	checkpointFileExt  = ".bin"
)

// CheckpointStore implements storage.CheckpointStore on the local filesystem.
//
// Checkpoints live under <destination_parent>/checkpoints/ and embed a short
// digest of the destination path in the filename, so two destinations sharing
// a parent directory never collide. Saves are atomic: the payload is written
// to a temp file in the same directory and renamed into place.
type CheckpointStore struct {
	logger *slog.Logger
}

var _ storage.CheckpointStore = (*CheckpointStore)(nil)

// Option configures a CheckpointStore.
type Option func(*CheckpointStore)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *CheckpointStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCheckpointStore creates a file-backed checkpoint store.
func NewCheckpointStore(opts ...Option) *CheckpointStore {
	s := &CheckpointStore{
		logger: slog.Default().With("component", "checkpoint-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the checkpoint file path for a destination.
func (s *CheckpointStore) Path(destination string) string {
	parent := filepath.Dir(filepath.Clean(destination))
	name := checkpointFileBase + "." + destinationKey(destination) + checkpointFileExt
	return filepath.Join(parent, checkpointDirName, name)
}

// Load retrieves the checkpoint for a destination. All failure modes are
// soft: a missing, unreadable, or corrupt checkpoint is logged and reported
// as absent, so a build always has a well-defined restart point.
func (s *CheckpointStore) Load(destination string) (*core.BuildProgress, error) {
	path := s.Path(destination)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("checkpoint unreadable, treating as absent", "path", path, "err", err)
		}
		return nil, nil
	}

	progress, err := storage.UnmarshalBuildProgress(data)
	if err != nil {
		s.logger.Warn("checkpoint corrupt, treating as absent", "path", path, "err", err)
		return nil, nil
	}

	return progress, nil
}

// Save atomically persists progress for a destination.
func (s *CheckpointStore) Save(destination string, progress *core.BuildProgress) error {
	path := s.Path(destination)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	data := storage.MarshalBuildProgress(progress)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write checkpoint: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// Delete removes the checkpoint for a destination. Idempotent.
func (s *CheckpointStore) Delete(destination string) error {
	err := os.Remove(s.Path(destination))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

// Clean removes the checkpoint for a destination and, if the checkpoint
// directory is left empty, removes the directory too. This is the maintenance
// surface for sweeping stale checkpoints.
func (s *CheckpointStore) Clean(destination string) error {
	if err := s.Delete(destination); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path(destination))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read checkpoint directory: %w", err)
	}
	if len(entries) == 0 {
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("remove checkpoint directory: %w", err)
		}
	}
	return nil
}

// destinationKey derives a short collision-resistant key from a destination path.
func destinationKey(destination string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(filepath.Clean(destination)))
	return hex.EncodeToString(h.Sum(nil))
}
