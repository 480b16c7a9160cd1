package ingest

import (
	"strings"
	"testing"

	"github.com/halcyondata/paperdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareShortDocumentsPassThrough(t *testing.T) {
	docs := []core.Document{
		{Content: "short document", Metadata: map[string]string{"source": "a.pdf"}},
		{Content: "another short one"},
	}

	prepared := Prepare(docs, 2000)
	require.Len(t, prepared, 2)

	for i, p := range prepared {
		assert.Equal(t, docs[i].Content, p.Content)
		assert.False(t, p.Truncated)
		assert.NotContains(t, p.Content, TruncationMarker)
	}
	assert.Equal(t, "a.pdf", prepared[0].Metadata["source"])
}

func TestPrepareTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 3000)
	docs := []core.Document{{Content: long, Metadata: map[string]string{"source": "b.pdf"}}}

	prepared := Prepare(docs, 2000)
	require.Len(t, prepared, 1)

	p := prepared[0]
	assert.True(t, p.Truncated)
	assert.Equal(t, 3000, p.OriginalLength)
	assert.True(t, strings.HasSuffix(p.Content, TruncationMarker))
	assert.Equal(t, strings.Repeat("x", 2000)+TruncationMarker, p.Content)
	assert.Equal(t, "true", p.Metadata["truncated"])
	assert.Equal(t, "3000", p.Metadata["original_length"])
	assert.Equal(t, "b.pdf", p.Metadata["source"])
}

func TestPrepareCountsRunesNotBytes(t *testing.T) {
	// 10 runes, 30 bytes
	content := strings.Repeat("世界和", 10)
	require.Equal(t, 30, len([]rune(content)))

	prepared := Prepare([]core.Document{{Content: content}}, 10)
	require.Len(t, prepared, 1)

	p := prepared[0]
	assert.True(t, p.Truncated)
	assert.Equal(t, 30, p.OriginalLength)
	assert.Equal(t, string([]rune(content)[:10])+TruncationMarker, p.Content)
}

func TestPrepareExactLimitNotTruncated(t *testing.T) {
	content := strings.Repeat("y", 2000)
	prepared := Prepare([]core.Document{{Content: content}}, 2000)
	require.Len(t, prepared, 1)
	assert.False(t, prepared[0].Truncated)
	assert.Equal(t, content, prepared[0].Content)
}

func TestPrepareDoesNotMutateInput(t *testing.T) {
	metadata := map[string]string{"source": "c.pdf"}
	docs := []core.Document{{Content: strings.Repeat("z", 100), Metadata: metadata}}

	prepared := Prepare(docs, 10)
	require.True(t, prepared[0].Truncated)

	assert.Equal(t, strings.Repeat("z", 100), docs[0].Content)
	assert.NotContains(t, metadata, "truncated")
	assert.NotContains(t, metadata, "original_length")
}

func TestPrepareIsDeterministic(t *testing.T) {
	docs := []core.Document{
		{Content: strings.Repeat("a", 50)},
		{Content: strings.Repeat("b", 5)},
		{Content: strings.Repeat("c", 50)},
	}

	first := Prepare(docs, 20)
	second := Prepare(docs, 20)
	assert.Equal(t, first, second)
}
