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


// Package paperdex builds resumable vector indexes over document sets and
// answers questions from them under hard time bounds. The Assistant facade
// wires the pieces together; the subpackages (ingest, index, search, storage)
// are usable on their own.
package paperdex

import (
	"context"
	"errors"
	"log/slog"

	"github.com/halcyondata/paperdex/ai"
	"github.com/halcyondata/paperdex/ai/openai"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/index"
	"github.com/halcyondata/paperdex/ingest"
	"github.com/halcyondata/paperdex/search"
	"github.com/halcyondata/paperdex/storage"
	"github.com/halcyondata/paperdex/storage/badger"
	"github.com/halcyondata/paperdex/storage/file"
)

// Assistant bundles the services of a research assistant instance: an AI
// provider, a file-backed checkpoint store for index builds, and a session
// repository recording past queries.
type Assistant struct {
	backend     *badger.Backend
	sessions    storage.SessionRepository
	checkpoints storage.CheckpointStore
	provider    ai.Provider
	logger      *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI service configuration used to build the default
// provider. Ignored if WithProvider is also given.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from configuration.
func WithProvider(provider ai.Provider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// NewAssistant opens an assistant instance backed by the session database at
// dbPath. An empty dbPath opens an in-memory session store.
func NewAssistant(dbPath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dbPath, dbPath == "")
	if err != nil {
		return nil, err
	}

	sessions, err := badger.NewSessionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			sessions.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Assistant{
		backend:     backend,
		sessions:    sessions,
		checkpoints: file.NewCheckpointStore(),
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close releases the assistant's resources.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.sessions.Close(); err != nil {
		a.logger.Error("error closing session repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Sessions returns the research session repository.
func (a *Assistant) Sessions() storage.SessionRepository {
	return a.sessions
}

// Checkpoints returns the build checkpoint store.
func (a *Assistant) Checkpoints() storage.CheckpointStore {
	return a.checkpoints
}

// NewBuilder creates an index builder using the assistant's embedder and
// checkpoint store.
func (a *Assistant) NewBuilder(opts ...ingest.Option) (*ingest.Builder, error) {
	return ingest.NewBuilder(a.provider.Embedder(), a.checkpoints, opts...)
}

// NewExecutor creates a bounded-time query executor using the assistant's
// AI provider.
func (a *Assistant) NewExecutor(opts ...search.Option) (*search.Executor, error) {
	return search.NewExecutor(a.provider, opts...)
}

// Research answers a question from the index and records the outcome as a
// session. A timed-out query is still recorded, with an empty answer, and the
// session is returned together with an error wrapping search.ErrQueryTimeout
// so the caller can tell the two outcomes apart. Other query failures record
// nothing.
func (a *Assistant) Research(ctx context.Context, ix *index.Index, question string, opts ...search.Option) (*core.ResearchSession, error) {
	executor, err := a.NewExecutor(opts...)
	if err != nil {
		return nil, err
	}
	defer executor.Release()

	result, queryErr := executor.Query(ctx, ix, question)
	if queryErr != nil && !errors.Is(queryErr, search.ErrQueryTimeout) {
		return nil, queryErr
	}

	session := &core.ResearchSession{Goal: question}
	if result != nil {
		session.Answer = result.Answer
		session.Sources = make([]core.Document, len(result.Sources))
		for i, src := range result.Sources {
			session.Sources[i] = src.Document
		}
	}

	stored, err := a.sessions.AddSession(ctx, session)
	if err != nil {
		a.logger.Warn("failed to record research session", "err", err)
		return session, queryErr
	}
	return stored, queryErr
}
