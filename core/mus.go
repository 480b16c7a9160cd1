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
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for every persisted domain type. The schemas
// are small and stable, and the checkpoint format must survive process
// restarts and version upgrades, so each field is encoded explicitly rather
// than through reflection. Metadata maps are written in sorted key order to
// keep the encoding deterministic. Timestamps use Unix microseconds.
var (
	IDMUS              = idMUS{}
	DocumentMUS        = documentMUS{}
	FingerprintMUS     = fingerprintMUS{}
	BuildProgressMUS   = buildProgressMUS{}
	ResearchSessionMUS = researchSessionMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type documentMUS struct{}

func (documentMUS) Marshal(doc Document, bs []byte) (n int) {
	n = ord.String.Marshal(doc.Content, bs)
	n += marshalStringMap(doc.Metadata, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (doc Document, n int, err error) {
	doc.Content, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	doc.Metadata, n1, err = unmarshalStringMap(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(doc Document) int {
	return ord.String.Size(doc.Content) + sizeStringMap(doc.Metadata)
}

type fingerprintMUS struct{}

func (fingerprintMUS) Marshal(fp Fingerprint, bs []byte) (n int) {
	n = varint.Int.Marshal(fp.Count, bs)
	n += ord.String.Marshal(fp.Digest, bs[n:])
	return n
}

func (fingerprintMUS) Unmarshal(bs []byte) (fp Fingerprint, n int, err error) {
	fp.Count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	fp.Digest, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (fingerprintMUS) Size(fp Fingerprint) int {
	return varint.Int.Size(fp.Count) + ord.String.Size(fp.Digest)
}

type buildProgressMUS struct{}

func (buildProgressMUS) Marshal(p BuildProgress, bs []byte) (n int) {
	n = varint.Int.Marshal(p.ProcessedCount, bs)
	n += FingerprintMUS.Marshal(p.Fingerprint, bs[n:])
	n += marshalBytes(p.Snapshot, bs[n:])
	n += marshalTime(p.UpdatedAt, bs[n:])
	return n
}

func (buildProgressMUS) Unmarshal(bs []byte) (p BuildProgress, n int, err error) {
	p.ProcessedCount, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	p.Fingerprint, n1, err = FingerprintMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Snapshot, n1, err = unmarshalBytes(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (buildProgressMUS) Size(p BuildProgress) int {
	return varint.Int.Size(p.ProcessedCount) +
		FingerprintMUS.Size(p.Fingerprint) +
		sizeBytes(p.Snapshot) +
		sizeTime(p.UpdatedAt)
}

type researchSessionMUS struct{}

func (researchSessionMUS) Marshal(s ResearchSession, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += ord.String.Marshal(s.Goal, bs[n:])
	n += ord.String.Marshal(s.Answer, bs[n:])
	n += varint.Int.Marshal(len(s.Sources), bs[n:])
	for _, doc := range s.Sources {
		n += DocumentMUS.Marshal(doc, bs[n:])
	}
	n += marshalTime(s.CreatedAt, bs[n:])
	return n
}

func (researchSessionMUS) Unmarshal(bs []byte) (s ResearchSession, n int, err error) {
	s.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	s.Goal, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = ErrShortBuffer
		return
	}
	if count > 0 {
		s.Sources = make([]Document, count)
		for i := 0; i < count; i++ {
			s.Sources[i], n1, err = DocumentMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	s.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (researchSessionMUS) Size(s ResearchSession) (size int) {
	size = IDMUS.Size(s.Id) +
		ord.String.Size(s.Goal) +
		ord.String.Size(s.Answer) +
		varint.Int.Size(len(s.Sources))
	for _, doc := range s.Sources {
		size += DocumentMUS.Size(doc)
	}
	return size + sizeTime(s.CreatedAt)
}

// String maps are encoded as a count followed by key/value pairs in sorted
// key order, so identical maps always serialize to identical bytes.

func marshalStringMap(m map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(m[k], bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (m map[string]string, n int, err error) {
	var count int
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 {
		return nil, n, ErrShortBuffer
	}
	if count == 0 {
		return nil, n, nil
	}
	m = make(map[string]string, count)
	var n1 int
	for i := 0; i < count; i++ {
		var k, v string
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		m[k] = v
	}
	return
}

func sizeStringMap(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k) + ord.String.Size(v)
	}
	return size
}

// Byte blobs are length-prefixed raw copies.

func marshalBytes(b []byte, bs []byte) (n int) {
	n = varint.Int.Marshal(len(b), bs)
	n += copy(bs[n:], b)
	return n
}

func unmarshalBytes(bs []byte) (b []byte, n int, err error) {
	var length int
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		return nil, n, ErrShortBuffer
	}
	if length > 0 {
		b = make([]byte, length)
		copy(b, bs[n:n+length])
	}
	return b, n + length, nil
}

func sizeBytes(b []byte) int {
	return varint.Int.Size(len(b)) + len(b)
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
