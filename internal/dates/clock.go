package dates

import "time"

// Clock supplies the current time. Parsers take one explicitly so relative
// expressions can be resolved against a fixed instant in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
