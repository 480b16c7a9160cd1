package badger

import (
	"context"
	"testing"
	"time"

	"github.com/halcyondata/paperdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	session := &core.ResearchSession{
		Goal:   "What regularization does the paper use?",
		Answer: "Dropout with p=0.5 on the fully connected layers.",
		Sources: []core.Document{
			{Content: "We apply dropout to the fully connected layers.", Metadata: map[string]string{"source": "paper.pdf"}},
		},
	}

	added, err := repo.AddSession(ctx, session)
	require.NoError(t, err)
	assert.NotZero(t, added.Id)
	assert.False(t, added.CreatedAt.IsZero())

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, added.Id, sessions[0].Id)
	assert.Equal(t, session.Goal, sessions[0].Goal)
	assert.Equal(t, session.Answer, sessions[0].Answer)
	require.Len(t, sessions[0].Sources, 1)
	assert.Equal(t, "paper.pdf", sessions[0].Sources[0].Metadata["source"])
}

func TestSessionRepositoryOrdering(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()

	goals := []string{"first question", "second question", "third question"}
	for i, goal := range goals {
		_, err := repo.AddSession(ctx, &core.ResearchSession{
			Goal:      goal,
			CreatedAt: now.Add(time.Duration(i-3) * time.Minute),
		})
		require.NoError(t, err)
	}

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for i, session := range sessions {
		assert.Equal(t, goals[i], session.Goal)
	}

	last, err := repo.LastSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "third question", last.Goal)
}

func TestSessionRepositoryEmpty(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	last, err := repo.LastSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSessionRepositoryValidation(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	_, err = repo.AddSession(ctx, &core.ResearchSession{Goal: "   "})
	assert.ErrorIs(t, err, core.ErrInvalidSession)

	_, err = repo.AddSession(ctx, nil)
	assert.ErrorIs(t, err, core.ErrInvalidSession)
}
