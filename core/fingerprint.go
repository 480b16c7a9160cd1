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
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// FingerprintDocuments computes the fingerprint of an ordered document set.
// The digest is a BLAKE2b hash over the document contents in sequence, each
// length-prefixed so that adjacent documents cannot be confused with a single
// concatenated one. The same documents in the same order always produce the
// same fingerprint.
func FingerprintDocuments(docs []Document) Fingerprint {
	h, _ := blake2b.New(16, nil)
	var lenBuf [8]byte
	for _, doc := range docs {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(doc.Content)))
		h.Write(lenBuf[:])
		h.Write([]byte(doc.Content))
	}
	return Fingerprint{
		Count:  len(docs),
		Digest: hex.EncodeToString(h.Sum(nil)),
	}
}
