package day

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dayWindow = Window{Start: ClockTime{Hour: 9}, End: ClockTime{Hour: 22}}

func TestWatcherStepCountsDownAndRollsOver(t *testing.T) {
	start := time.Date(2024, 3, 10, 21, 30, 0, 0, time.Local)
	w := NewWatcher(ClockFunc(func() time.Time { return start }), dayWindow)

	tick, rollover := w.step(start)
	assert.Nil(t, rollover)
	assert.Equal(t, 30*time.Minute, tick.Remaining)
	assert.False(t, tick.Ended)

	tick, rollover = w.step(start.Add(45 * time.Minute))
	assert.Nil(t, rollover)
	assert.True(t, tick.Ended)
	assert.Zero(t, tick.Remaining)

	next := time.Date(2024, 3, 11, 0, 0, 1, 0, time.Local)
	_, rollover = w.step(next)
	require.NotNil(t, rollover)
	assert.Equal(t, RolloverMsg{From: "2024-03-10", To: "2024-03-11"}, *rollover)

	_, rollover = w.step(next.Add(time.Second))
	assert.Nil(t, rollover, "rollover is reported once")
}

func TestWatcherSetWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.Local)
	w := NewWatcher(ClockFunc(func() time.Time { return now }), dayWindow)

	w.SetWindow(Window{Start: ClockTime{Hour: 9}, End: ClockTime{Hour: 21}})
	tick, _ := w.step(now)
	assert.Equal(t, time.Hour, tick.Remaining)
}

func TestWatcherOvernightWindow(t *testing.T) {
	evening := time.Date(2024, 3, 10, 18, 30, 0, 0, time.Local)
	w := NewWatcher(ClockFunc(func() time.Time { return evening }),
		Window{Start: ClockTime{Hour: 18}, End: ClockTime{Hour: 2}})

	tick, rollover := w.step(evening)
	assert.Nil(t, rollover)
	assert.False(t, tick.Ended)
	assert.Equal(t, 7*time.Hour+30*time.Minute, tick.Remaining)

	tick, rollover = w.step(time.Date(2024, 3, 11, 1, 0, 0, 0, time.Local))
	assert.Nil(t, rollover, "midnight does not end an overnight day")
	assert.Equal(t, time.Hour, tick.Remaining)

	tick, rollover = w.step(time.Date(2024, 3, 11, 2, 0, 0, 0, time.Local))
	require.NotNil(t, rollover)
	assert.Equal(t, RolloverMsg{From: "2024-03-10", To: "2024-03-11"}, *rollover)
	assert.True(t, tick.Ended)
}

func TestWatcherDeliversTicksUntilStopped(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	clock := ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})

	w := NewWatcher(clock, dayWindow)
	w.interval = 5 * time.Millisecond

	cmd := w.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, w.Start(), "second start is a no-op")

	msg, ok := cmd().(TickMsg)
	require.True(t, ok)
	assert.Equal(t, 10*time.Hour, msg.Remaining)

	mu.Lock()
	now = now.AddDate(0, 0, 1)
	mu.Unlock()

	var rolled bool
	for range 20 {
		if r, ok := w.WaitForNext()().(RolloverMsg); ok {
			assert.Equal(t, "2024-03-11", r.To)
			rolled = true
			break
		}
	}
	assert.True(t, rolled)

	w.Stop()
	w.Stop()

	// Buffered ticks may still drain; after that the stop wins.
	var stopped bool
	for range 20 {
		if w.WaitForNext()() == nil {
			stopped = true
			break
		}
	}
	assert.True(t, stopped)
}
