package clock

import "time"

// Clock is the injected time source. Every component that stamps or ages
// records takes one of these instead of calling time.Now, so tests can
// pin the timeline.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns the wall clock, truncated to UTC.
func New() Clock {
	return realClock{}
}

// Fixed is a Clock stuck at one instant. Test helper.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
