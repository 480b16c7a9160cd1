package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerReportsAtInterval(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 10)

	tracker.Start(100)
	tracker.Update(5)
	assert.Empty(t, buf.String(), "below the interval, nothing is reported")

	tracker.Update(10)
	first := buf.String()
	require.Contains(t, first, "10/100")

	tracker.Update(14)
	assert.Equal(t, first, buf.String(), "partial interval does not re-report")

	tracker.Update(20)
	assert.Contains(t, buf.String(), "20/100")
}

func TestProgressTrackerFinish(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 50)

	tracker.Start(30)
	tracker.Update(30)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "30/30")
	assert.Contains(t, out, "100.0%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressTrackerClampsOvershoot(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start(10)
	tracker.Update(15)
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTrackerBeforeStart(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 1)

	// Safe no-ops before Start
	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
