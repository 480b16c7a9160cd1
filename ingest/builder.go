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
	"context"
	"log/slog"
	"time"

	"github.com/halcyondata/paperdex/ai"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/index"
	"github.com/halcyondata/paperdex/storage"
)

// Build defaults. Chosen for research-paper corpora: a batch is small enough
// to checkpoint frequently, the deadline covers a full 500-document build on
// a local embedding model.
const (
	DefaultBatchSize = 50
	DefaultMaxChars  = 2000
	DefaultMaxDocs   = 500
	DefaultDeadline  = 120 * time.Minute
)

// Builder constructs a persisted vector index from a document sequence in
// batches, checkpointing after every batch so an interrupted build resumes
// instead of starting over.
//
// A Builder is single-threaded by design: each batch's insertion depends on
// the index state left by the previous one, and checkpoint correctness
// requires a total order over the processed count. Callers must not run two
// builds against the same destination concurrently.
type Builder struct {
	embedder    ai.Embedder
	checkpoints storage.CheckpointStore
	batchSize   int
	maxChars    int
	maxDocs     int
	deadline    time.Duration
	tracker     *ProgressTracker
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithBatchSize sets the number of documents embedded and inserted per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithMaxChars sets the per-document character cap applied by preprocessing.
// Default is DefaultMaxChars.
func WithMaxChars(maxChars int) Option {
	return func(b *Builder) {
		if maxChars > 0 {
			b.maxChars = maxChars
		}
	}
}

// WithMaxDocs caps how many documents a build processes; the deterministic
// prefix of the input is kept so ordering (and checkpoint offsets) stay
// stable. Zero means no cap. Default is DefaultMaxDocs.
func WithMaxDocs(maxDocs int) Option {
	return func(b *Builder) {
		if maxDocs >= 0 {
			b.maxDocs = maxDocs
		}
	}
}

// WithDeadline sets the wall-clock budget for a build.
// Default is DefaultDeadline.
func WithDeadline(deadline time.Duration) Option {
	return func(b *Builder) {
		if deadline > 0 {
			b.deadline = deadline
		}
	}
}

// WithTracker attaches a progress tracker that is updated after every batch.
func WithTracker(tracker *ProgressTracker) Option {
	return func(b *Builder) {
		b.tracker = tracker
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a batch index builder.
func NewBuilder(embedder ai.Embedder, checkpoints storage.CheckpointStore, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointStoreRequired
	}

	b := &Builder{
		embedder:    embedder,
		checkpoints: checkpoints,
		batchSize:   DefaultBatchSize,
		maxChars:    DefaultMaxChars,
		maxDocs:     DefaultMaxDocs,
		deadline:    DefaultDeadline,
		logger:      slog.Default().With("component", "index-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build turns a document sequence into a persisted vector index at
// destination.
//
// The input is capped to the configured document limit, preprocessed, and
// embedded in batches. After every successful batch the builder saves a
// checkpoint carrying the index snapshot, the processed count, and a
// fingerprint of the input set; a prior checkpoint whose fingerprint matches
// resumes the build at its offset, one that doesn't is discarded. The
// deadline is polled between batches; an in-flight embedding call runs to
// completion, trading at most one batch of overshoot for never corrupting an
// insertion.
//
// On success the index is persisted atomically at destination, the checkpoint
// is deleted, and the index is returned. On deadline expiry Build returns a
// *TimeoutError, on a batch failure a *BuildError; in both cases the last
// checkpoint stays on disk and a fresh invocation resumes from it. Checkpoint
// save failures never abort a build: the in-memory index is still valid, so
// they are logged and the build continues.
func (b *Builder) Build(ctx context.Context, docs []core.Document, destination string) (*index.Index, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	if b.maxDocs > 0 && len(docs) > b.maxDocs {
		b.logger.Info("capping document set", "total", len(docs), "max", b.maxDocs)
		docs = docs[:b.maxDocs]
	}

	prepared := Prepare(docs, b.maxChars)
	fingerprint := core.FingerprintDocuments(docs)

	ix, resumeOffset := b.restore(destination, fingerprint, len(prepared))

	b.logger.Info("starting index build",
		"destination", destination,
		"documents", len(prepared),
		"batch_size", b.batchSize,
		"resume_offset", resumeOffset,
		"deadline", b.deadline)

	if b.tracker != nil {
		b.tracker.Start(len(prepared))
		b.tracker.Update(resumeOffset)
	}

	deadline := time.Now().Add(b.deadline)

	for offset := resumeOffset; offset < len(prepared); {
		if err := ctx.Err(); err != nil {
			return nil, &BuildError{Processed: offset, Err: err}
		}
		if !time.Now().Before(deadline) {
			b.logger.Warn("build deadline exceeded", "processed", offset, "total", len(prepared))
			return nil, &TimeoutError{Processed: offset, Total: len(prepared), Deadline: b.deadline}
		}

		end := min(offset+b.batchSize, len(prepared))
		batch := prepared[offset:end]

		if err := b.insertBatch(ctx, &ix, batch); err != nil {
			b.logger.Error("batch insertion failed", "offset", offset, "size", len(batch), "err", err)
			// Keep the committed batches recoverable for a retrying caller.
			b.saveProgress(destination, ix, offset, fingerprint)
			return nil, &BuildError{Processed: offset, Err: err}
		}

		offset = end
		b.saveProgress(destination, ix, offset, fingerprint)

		if b.tracker != nil {
			b.tracker.Update(offset)
		}
		b.logger.Debug("batch committed", "processed", offset, "total", len(prepared))
	}

	if err := ix.Save(destination); err != nil {
		// The checkpoint stays; a rerun re-persists without re-embedding.
		return nil, &BuildError{Processed: len(prepared), Err: err}
	}

	if err := b.checkpoints.Delete(destination); err != nil {
		b.logger.Warn("failed to delete checkpoint after successful build", "err", err)
	}

	if b.tracker != nil {
		b.tracker.Finish()
	}
	b.logger.Info("index build complete", "destination", destination, "documents", ix.Len())

	return ix, nil
}

// restore loads prior progress for the destination. A checkpoint is honored
// only when its fingerprint matches the current input set and its offset fits
// the prepared sequence; anything else is discarded so a stale offset can
// never misalign the resumed index.
func (b *Builder) restore(destination string, fingerprint core.Fingerprint, total int) (*index.Index, int) {
	progress, err := b.checkpoints.Load(destination)
	if err != nil {
		b.logger.Warn("checkpoint load failed, starting fresh", "err", err)
		return nil, 0
	}
	if progress == nil {
		return nil, 0
	}

	if !progress.Fingerprint.Equal(fingerprint) || progress.ProcessedCount > total {
		b.logger.Warn("checkpoint does not match current document set, discarding",
			"checkpoint_count", progress.Fingerprint.Count,
			"current_count", fingerprint.Count)
		if err := b.checkpoints.Delete(destination); err != nil {
			b.logger.Warn("failed to discard stale checkpoint", "err", err)
		}
		return nil, 0
	}

	ix, err := index.Restore(progress.Snapshot)
	if err != nil {
		b.logger.Warn("checkpoint snapshot unusable, starting fresh", "err", err)
		return nil, 0
	}

	b.logger.Info("resuming build from checkpoint",
		"processed", progress.ProcessedCount,
		"saved_at", progress.UpdatedAt)
	return ix, progress.ProcessedCount
}

// insertBatch embeds one batch and inserts it into the index. The first batch
// creates the index; all later batches use incremental insertion.
func (b *Builder) insertBatch(ctx context.Context, ix **index.Index, batch []core.PreparedDocument) error {
	texts := make([]string, len(batch))
	batchDocs := make([]core.Document, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Content
		batchDocs[i] = doc.Document
	}

	vectors, err := b.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	if *ix == nil {
		created, err := index.FromBatch(batchDocs, vectors)
		if err != nil {
			return err
		}
		*ix = created
		return nil
	}
	return (*ix).Add(batchDocs, vectors)
}

// saveProgress checkpoints the build, best-effort. A failed save is logged
// and surfaced as a warning only: the in-memory index state is still valid.
func (b *Builder) saveProgress(destination string, ix *index.Index, processed int, fingerprint core.Fingerprint) {
	if ix == nil || processed == 0 {
		return
	}

	snapshot, err := ix.Snapshot()
	if err != nil {
		b.logger.Warn("failed to snapshot index for checkpoint", "err", err)
		return
	}

	progress := &core.BuildProgress{
		ProcessedCount: processed,
		Fingerprint:    fingerprint,
		Snapshot:       snapshot,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := b.checkpoints.Save(destination, progress); err != nil {
		b.logger.Warn("checkpoint save failed, progress held in memory only", "processed", processed, "err", err)
	}
}
