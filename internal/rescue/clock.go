package rescue

import "time"

// Clock is the monotonic time source the scheduler reads once per tick and
// passes into Controller.Update, so that interval computations (and the
// sanity supervisor's 1 Hz gate) can be driven by a virtual clock in tests
// instead of wall time.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
