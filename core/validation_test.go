package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateResearchSession(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		err := ValidateResearchSession(&ResearchSession{
			Goal:      "how does the paper evaluate?",
			CreatedAt: time.Now().UTC(),
		})
		assert.NoError(t, err)
	})

	t.Run("zero timestamp is valid", func(t *testing.T) {
		err := ValidateResearchSession(&ResearchSession{Goal: "question"})
		assert.NoError(t, err)
	})

	t.Run("empty answer and sources are valid", func(t *testing.T) {
		// A timed-out query stores a session with no answer
		err := ValidateResearchSession(&ResearchSession{Goal: "unanswered question"})
		assert.NoError(t, err)
	})

	t.Run("nil session", func(t *testing.T) {
		err := ValidateResearchSession(nil)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("empty goal", func(t *testing.T) {
		err := ValidateResearchSession(&ResearchSession{Goal: ""})
		assert.ErrorIs(t, err, ErrInvalidSession)
		assert.ErrorIs(t, err, ErrEmptyGoal)
	})

	t.Run("whitespace goal", func(t *testing.T) {
		err := ValidateResearchSession(&ResearchSession{Goal: "  \t\n "})
		assert.ErrorIs(t, err, ErrEmptyGoal)
	})

	t.Run("future timestamp", func(t *testing.T) {
		err := ValidateResearchSession(&ResearchSession{
			Goal:      "question",
			CreatedAt: time.Now().UTC().Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestIsValidTimestamp(t *testing.T) {
	assert.True(t, IsValidTimestamp(time.Time{}))
	assert.True(t, IsValidTimestamp(time.Now().UTC()))
	assert.True(t, IsValidTimestamp(time.Now().UTC().Add(-24*time.Hour)))
	assert.False(t, IsValidTimestamp(time.Now().UTC().Add(2*time.Hour)))
}
