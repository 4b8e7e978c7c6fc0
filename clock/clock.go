package clock

import "time"

// Clock is the injectable time source used wherever the server needs the
// current time. Production code reads the wall clock; tests substitute a
// manually advanceable Fake so expiry behaviour is deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

// Fake is a Clock whose current time only moves when Advance or Set is
// called. Not safe for concurrent use; intended for tests.
type Fake struct {
	now time.Time
}

// NewFake returns a Fake clock frozen at the given instant.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	return f.now
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Set jumps the fake clock to the given instant.
func (f *Fake) Set(now time.Time) {
	f.now = now
}
