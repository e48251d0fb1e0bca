package shared

import "time"

// Clock abstracts the current-time source so token expiry is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the configured instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
