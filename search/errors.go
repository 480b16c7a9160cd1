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

import "errors"

var (
	// ErrQueryTimeout indicates a query did not complete within the
	// executor's timeout. The worker keeps running in the background and its
	// eventual result is discarded.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrProviderRequired is returned when an AI provider is not supplied.
	ErrProviderRequired = errors.New("ai provider required")

	// ErrIndexRequired is returned when a query is run against a nil index.
	ErrIndexRequired = errors.New("index required")

	// ErrEmptyQuestion is returned when the question is empty or whitespace.
	ErrEmptyQuestion = errors.New("question must not be empty")
)
