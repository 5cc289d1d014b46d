package control_loop

import "time"

// Clock provides the current time to a control loop.
// Injecting it allows tests to simulate arbitrary elapsed intervals.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
