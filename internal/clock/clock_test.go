package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock_Now(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewFakeClock(fixedTime)

	t.Run("returns fixed time", func(t *testing.T) {
		if actual := clock.Now(); !actual.Equal(fixedTime) {
			t.Errorf("FakeClock.Now() = %v, want %v", actual, fixedTime)
		}
	})

	t.Run("subsequent calls return same time", func(t *testing.T) {
		first := clock.Now()
		second := clock.Now()
		if !first.Equal(second) {
			t.Errorf("FakeClock.Now() should return consistent time: first=%v, second=%v", first, second)
		}
	})
}

func TestFakeClock_SetAndAdvance(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	t.Run("set updates the current time", func(t *testing.T) {
		newTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		clock.Set(newTime)
		if actual := clock.Now(); !actual.Equal(newTime) {
			t.Errorf("After Set(), Now() = %v, want %v", actual, newTime)
		}
	})

	t.Run("advances accumulate", func(t *testing.T) {
		clock.Set(initialTime)
		clock.Advance(1 * time.Hour)
		clock.Advance(30 * time.Minute)

		expectedTime := initialTime.Add(90 * time.Minute)
		if actual := clock.Now(); !actual.Equal(expectedTime) {
			t.Errorf("After advances, Now() = %v, want %v", actual, expectedTime)
		}
	})
}

func TestSteppingClock(t *testing.T) {
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	clock := NewSteppingClock(start, time.Second)

	t.Run("each call moves forward by the step", func(t *testing.T) {
		first := clock.Now()
		second := clock.Now()
		third := clock.Now()

		if !first.Equal(start) {
			t.Errorf("first Now() = %v, want %v", first, start)
		}
		if !second.Equal(start.Add(time.Second)) {
			t.Errorf("second Now() = %v, want %v", second, start.Add(time.Second))
		}
		if !third.After(second) {
			t.Errorf("times should be strictly increasing: %v then %v", second, third)
		}
	})

	t.Run("zero step behaves like a frozen clock", func(t *testing.T) {
		frozen := NewSteppingClock(start, 0)
		if !frozen.Now().Equal(frozen.Now()) {
			t.Error("zero-step clock should return a constant time")
		}
	})
}
