package storage

import (
	"testing"
	"time"

	"github.com/halcyondata/paperdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 255, 1 << 40, ^core.ID(0)} {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestBuildProgressRoundTrip(t *testing.T) {
	progress := &core.BuildProgress{
		ProcessedCount: 150,
		Fingerprint:    core.Fingerprint{Count: 500, Digest: "deadbeefcafe"},
		Snapshot:       []byte{0, 1, 2, 3, 255},
		UpdatedAt:      time.Date(2025, 11, 3, 14, 30, 0, 123000, time.UTC),
	}

	data := MarshalBuildProgress(progress)
	got, err := UnmarshalBuildProgress(data)
	require.NoError(t, err)

	assert.Equal(t, progress.ProcessedCount, got.ProcessedCount)
	assert.Equal(t, progress.Fingerprint, got.Fingerprint)
	assert.Equal(t, progress.Snapshot, got.Snapshot)
	assert.True(t, progress.UpdatedAt.Equal(got.UpdatedAt))
}

func TestBuildProgressRejectsTrailingData(t *testing.T) {
	data := MarshalBuildProgress(&core.BuildProgress{
		ProcessedCount: 1,
		Fingerprint:    core.Fingerprint{Count: 1, Digest: "aa"},
		Snapshot:       []byte{9},
		UpdatedAt:      time.Now().UTC(),
	})

	_, err := UnmarshalBuildProgress(append(data, 0x00))
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestBuildProgressRejectsTruncatedData(t *testing.T) {
	data := MarshalBuildProgress(&core.BuildProgress{
		ProcessedCount: 42,
		Fingerprint:    core.Fingerprint{Count: 100, Digest: "0011223344556677"},
		Snapshot:       make([]byte, 64),
		UpdatedAt:      time.Now().UTC(),
	})

	_, err := UnmarshalBuildProgress(data[:len(data)/2])
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	session := &core.ResearchSession{
		Id:     7,
		Goal:   "what optimizer was used?",
		Answer: "Adam with a warmup schedule.",
		Sources: []core.Document{
			{Content: "We train with Adam.", Metadata: map[string]string{"title": "Paper A", "url": "https://example.org/a"}},
			{Content: "Warmup for 4k steps."},
		},
		CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	data := MarshalSession(session)
	got, err := UnmarshalSession(data)
	require.NoError(t, err)

	assert.Equal(t, session.Id, got.Id)
	assert.Equal(t, session.Goal, got.Goal)
	assert.Equal(t, session.Answer, got.Answer)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, session.Sources[0].Metadata, got.Sources[0].Metadata)
	assert.Equal(t, session.Sources[1].Content, got.Sources[1].Content)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
}
