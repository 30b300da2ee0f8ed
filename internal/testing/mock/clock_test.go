package mock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func fired(ch <-chan time.Time) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestClock_Advance(t *testing.T) {
	clock := NewClock(start)
	assert.Equal(t, start, clock.Now())

	clock.Advance(3 * time.Second)
	clock.Advance(2 * time.Second)
	assert.Equal(t, start.Add(5*time.Second), clock.Now())
}

func TestClock_AfterFiresAtDeadline(t *testing.T) {
	clock := NewClock(start)

	short := clock.After(2 * time.Second)
	long := clock.After(5 * time.Second)
	assert.Equal(t, 2, clock.Pending())

	clock.Advance(time.Second)
	assert.False(t, fired(short))

	clock.Advance(time.Second)
	assert.True(t, fired(short))
	assert.False(t, fired(long))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.True(t, fired(long))
	assert.Zero(t, clock.Pending())

	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, clock.Sleeps())
}

func TestClock_AfterNonPositive(t *testing.T) {
	clock := NewClock(start)

	assert.True(t, fired(clock.After(0)))
	assert.True(t, fired(clock.After(-time.Second)))
	assert.Zero(t, clock.Pending())
	assert.Len(t, clock.Sleeps(), 2)
}
