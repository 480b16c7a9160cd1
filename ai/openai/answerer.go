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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/halcyondata/paperdex/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// answerPromptTemplate instructs the model to answer strictly from the
// retrieved passages and to decline rather than invent.
const answerPromptTemplate = `Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context: %s

Question: %s

Answer:`

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AnswerHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnswerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Answerer{
		client:    client,
		maxTokens: config.MaxAnswerTokens,
		logger:    slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new answer generator using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// GenerateAnswer produces an answer grounded in the retrieved context passages.
func (a *Answerer) GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error) {
	a.logger.Debug("generating answer", "contexts", len(contexts))

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(contexts, "\n\n"), question)

	answer, err := llms.GenerateFromSinglePrompt(ctx, a.client, prompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	return strings.TrimSpace(answer), nil
}
