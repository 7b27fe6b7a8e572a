package pipeline

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 2)

	tracker.Start()
	tracker.Done(false)
	assert.Equal(t, "", buf.String(), "should not print under interval")

	tracker.Done(true)
	assert.Contains(t, buf.String(), "2/4")
	assert.Contains(t, buf.String(), "50.0%")
	assert.Contains(t, buf.String(), "1 failed")

	time.Sleep(time.Millisecond)
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)

	tracker.Start()
	tracker.Done(false)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "10/10", "finish should set to total")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "documents/s")
	assert.Contains(t, output, "\n", "finish should print newline")
}

func TestProgressTracker_DoneBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1, 1)

	tracker.Start()
	tracker.Done(false)
	buf.Reset()
	tracker.Done(false)

	assert.NotContains(t, buf.String(), "2/1")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1)

	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Done(true)
	tracker.Finish()

	assert.Equal(t, "", buf.String(), "should have no output when not started")
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}
