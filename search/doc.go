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


// Package search answers questions from a built vector index under a hard
// wall-clock timeout. The Executor embeds the question, retrieves the
// nearest documents, and generates a grounded answer on a pool worker; the
// caller is released when the worker finishes, the timer fires, or its
// context is cancelled, whichever comes first.
package search
