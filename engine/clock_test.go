package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_FiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(testStart)
	var fired []string

	clock.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "b") })

	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, testStart.Add(2*time.Second), clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Zero(t, clock.Pending())
}

func TestManualClock_NowDuringCallback(t *testing.T) {
	clock := NewManualClock(testStart)
	var at time.Time

	clock.AfterFunc(1500*time.Millisecond, func() { at = clock.Now() })
	clock.Advance(time.Minute)

	assert.Equal(t, testStart.Add(1500*time.Millisecond), at)
	assert.Equal(t, testStart.Add(time.Minute), clock.Now())
}

func TestManualClock_Stop(t *testing.T) {
	clock := NewManualClock(testStart)
	fired := false

	timer := clock.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManualClock_StopAfterFire(t *testing.T) {
	clock := NewManualClock(testStart)

	timer := clock.AfterFunc(time.Second, func() {})
	clock.Advance(time.Second)

	assert.False(t, timer.Stop())
}

func TestManualClock_RunsCallbacksScheduledByCallbacks(t *testing.T) {
	clock := NewManualClock(testStart)
	count := 0

	var tick func()
	tick = func() {
		count++
		clock.AfterFunc(time.Second, tick)
	}
	clock.AfterFunc(time.Second, tick)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, clock.Pending())
}

func TestManualClock_NegativeDelayIsImmediate(t *testing.T) {
	clock := NewManualClock(testStart)
	fired := false

	clock.AfterFunc(-time.Second, func() { fired = true })
	clock.Advance(0)

	assert.True(t, fired)
	assert.Equal(t, testStart, clock.Now())
}

func TestSystemClock_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	SystemClock().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("system clock callback never fired")
	}
}
