package pacer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_initialValueDoesNotSchedule(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("init", 500*time.Millisecond, WithClock(clock))

	assert.Equal(t, "init", v.Get())
	assert.False(t, v.Pending(), "no spurious call on construction")

	// Re-observing the initial value is not a change.
	v.Set("init")
	assert.False(t, v.Pending())

	clock.Advance(2 * time.Second)
	assert.Equal(t, "init", v.Get())
}

func TestValue_commitsAfterQuiet(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("", 500*time.Millisecond, WithClock(clock))

	v.Set("h")
	clock.Advance(100 * time.Millisecond)
	v.Set("he")
	clock.Advance(100 * time.Millisecond)
	v.Set("hello")

	assert.Equal(t, "", v.Get(), "nothing committed mid-burst")
	assert.True(t, v.Pending())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, "hello", v.Get(), "only the last observation commits")
	assert.False(t, v.Pending())

	select {
	case got := <-v.Updates():
		assert.Equal(t, "hello", got)
	default:
		t.Fatal("expected an update")
	}
}

func TestValue_duplicateSetsAreNoOps(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("a", 500*time.Millisecond, WithClock(clock))

	v.Set("b")
	clock.Advance(400 * time.Millisecond)
	// Same observed value: must not push the trailing edge out.
	v.Set("b")
	clock.Advance(100 * time.Millisecond)

	assert.Equal(t, "b", v.Get(), "committed 500ms after the only real change")
}

func TestValue_updatesChannelKeepsLatest(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("", 500*time.Millisecond, WithClock(clock))

	v.Set("first")
	clock.Advance(500 * time.Millisecond)
	v.Set("second")
	clock.Advance(500 * time.Millisecond)

	// Nothing consumed the channel between commits: the older update is
	// dropped in favor of the latest.
	select {
	case got := <-v.Updates():
		assert.Equal(t, "second", got)
	default:
		t.Fatal("expected an update")
	}
	select {
	case got := <-v.Updates():
		t.Fatalf("unexpected extra update %q", got)
	default:
	}
}

func TestValue_flush(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("", 500*time.Millisecond, WithClock(clock))

	v.Set("a")
	clock.Advance(100 * time.Millisecond)

	assert.Equal(t, "a", v.Flush())
	assert.Equal(t, "a", v.Get())
	assert.False(t, v.Pending())

	// Flush with nothing pending returns the committed value unchanged.
	assert.Equal(t, "a", v.Flush())
}

func TestValue_cancelRewindsObservation(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewValue("a", 500*time.Millisecond, WithClock(clock))

	v.Set("b")
	require.True(t, v.Pending())
	v.Cancel()
	assert.False(t, v.Pending())

	clock.Advance(2 * time.Second)
	assert.Equal(t, "a", v.Get(), "canceled observation never commits")

	// The discarded value counts as a change again after cancel.
	v.Set("b")
	assert.True(t, v.Pending())
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, "b", v.Get())
}

func TestNewThrottledValue(t *testing.T) {
	t.Parallel()

	clock := newMockClock()
	v := NewThrottledValue(0, 500*time.Millisecond, WithClock(clock))

	v.Set(1)
	assert.Equal(t, 1, v.Get(), "leading edge commits immediately")

	clock.Advance(200 * time.Millisecond)
	v.Set(2)
	clock.Advance(200 * time.Millisecond)
	v.Set(3)
	assert.Equal(t, 1, v.Get(), "mid-window changes wait")

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, v.Get(), "trailing edge commits the latest change")
}
