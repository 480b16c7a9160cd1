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


package storage

import (
	"github.com/halcyondata/paperdex/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalBuildProgress serializes a BuildProgress to bytes.
func MarshalBuildProgress(progress *core.BuildProgress) []byte {
	buf := make([]byte, core.BuildProgressMUS.Size(*progress))
	core.BuildProgressMUS.Marshal(*progress, buf)
	return buf
}

// UnmarshalBuildProgress deserializes a BuildProgress from bytes.
func UnmarshalBuildProgress(data []byte) (*core.BuildProgress, error) {
	progress, n, err := core.BuildProgressMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, ErrTruncatedData
	}
	return &progress, nil
}

// MarshalSession serializes a ResearchSession to bytes.
func MarshalSession(session *core.ResearchSession) []byte {
	buf := make([]byte, core.ResearchSessionMUS.Size(*session))
	core.ResearchSessionMUS.Marshal(*session, buf)
	return buf
}

// UnmarshalSession deserializes a ResearchSession from bytes.
func UnmarshalSession(data []byte) (*core.ResearchSession, error) {
	session, _, err := core.ResearchSessionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
