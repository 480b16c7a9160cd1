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
	"maps"
	"strconv"

	"github.com/halcyondata/paperdex/core"
)

// TruncationMarker is appended to content that was cut at the character cap.
const TruncationMarker = "... [truncated]"

// Prepare normalizes documents for indexing by capping content length.
//
// Content longer than maxChars runes is cut to the first maxChars runes with
// TruncationMarker appended, and the document's metadata gains
// truncated=true and original_length entries. Shorter documents pass through
// unchanged. Input documents are never mutated; truncated documents get a
// cloned metadata map. Order is preserved and re-running over the same input
// always yields the same sequence; resume offsets stored in checkpoints
// depend on that.
func Prepare(docs []core.Document, maxChars int) []core.PreparedDocument {
	prepared := make([]core.PreparedDocument, len(docs))
	for i, doc := range docs {
		runes := []rune(doc.Content)
		if maxChars > 0 && len(runes) > maxChars {
			metadata := maps.Clone(doc.Metadata)
			if metadata == nil {
				metadata = make(map[string]string, 2)
			}
			metadata["truncated"] = "true"
			metadata["original_length"] = strconv.Itoa(len(runes))

			prepared[i] = core.PreparedDocument{
				Document: core.Document{
					Content:  string(runes[:maxChars]) + TruncationMarker,
					Metadata: metadata,
				},
				Truncated:      true,
				OriginalLength: len(runes),
			}
			continue
		}

		prepared[i] = core.PreparedDocument{
			Document:       doc,
			Truncated:      false,
			OriginalLength: len(runes),
		}
	}
	return prepared
}
