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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/halcyondata/paperdex/ai"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/index"
	"github.com/panjf2000/ants/v2"
)

// Query defaults matching the retrieval pipeline this serves: three source
// passages feed the answer prompt, and a query never holds its caller past
// one minute.
const (
	DefaultTimeout = 60 * time.Second
	DefaultTopK    = 3
)

// Result is a successful query outcome: the generated answer and the
// retrieved source documents that grounded it, most relevant first.
type Result struct {
	Answer  string
	Sources []core.ScoredDocument
}

// Executor runs retrieval queries against a built index under a hard
// wall-clock timeout.
//
// Each query runs on a pool worker; the caller waits on whichever finishes
// first: the worker, the timer, or the caller's context. A timed-out worker
// is abandoned, not killed: the underlying model client has no cancellation
// primitive, so the worker may complete later and its result is discarded.
// Concurrent queries against one completed index are safe.
type Executor struct {
	embedder ai.Embedder
	answerer ai.Answerer
	pool     *ants.Pool
	timeout  time.Duration
	topK     int
	logger   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor) error

// WithTimeout sets the hard per-query timeout.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) error {
		if timeout > 0 {
			e.timeout = timeout
		}
		return nil
	}
}

// WithTopK sets how many source documents are retrieved per query.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(e *Executor) error {
		if k > 0 {
			e.topK = k
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent queries.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Executor) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewExecutor creates a bounded-time query executor backed by the provider's
// embedding and answer services.
func NewExecutor(provider ai.Provider, opts ...Option) (*Executor, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		embedder: provider.Embedder(),
		answerer: provider.Answerer(),
		pool:     pool,
		timeout:  DefaultTimeout,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "query-executor"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// Release shuts down the worker pool.
// The executor should not be used after calling Release.
func (e *Executor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

type outcome struct {
	result *Result
	err    error
}

// Query answers a question from the index, returning within the configured
// timeout plus scheduling overhead. Exactly one of the three outcomes is
// reported per call: the result, an error wrapping ErrQueryTimeout, or the
// underlying failure with its cause preserved.
func (e *Executor) Query(ctx context.Context, ix *index.Index, question string) (*Result, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	// Buffered so an abandoned worker can deliver its discarded result
	// without blocking forever.
	results := make(chan outcome, 1)

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	// Submission itself can block while abandoned workers hold the pool's
	// slots, so it races against the same timer as the query. A submission
	// that completes after the caller has gone schedules a worker whose
	// result lands in the buffered channel and is discarded.
	submitErrs := make(chan error, 1)
	go func() {
		if err := e.pool.Submit(func() {
			result, err := e.run(ctx, ix, question)
			results <- outcome{result: result, err: err}
		}); err != nil {
			submitErrs <- err
		}
	}()

	select {
	case err := <-submitErrs:
		return nil, fmt.Errorf("submit query: %w", err)
	case out := <-results:
		if out.err != nil {
			e.logger.Error("query failed", "err", out.err)
			return nil, fmt.Errorf("query failed: %w", out.err)
		}
		return out.result, nil
	case <-timer.C:
		e.logger.Warn("query timed out, abandoning worker", "timeout", e.timeout)
		return nil, fmt.Errorf("%w after %s", ErrQueryTimeout, e.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run is the query pipeline executed on a pool worker: embed the question,
// retrieve the nearest documents, generate a grounded answer.
func (e *Executor) run(ctx context.Context, ix *index.Index, question string) (*Result, error) {
	vector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := ix.Search(vector, e.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return &Result{}, nil
	}

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = hit.Document.Content
	}

	answer, err := e.answerer.GenerateAnswer(ctx, question, contexts)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Result{Answer: answer, Sources: hits}, nil
}
