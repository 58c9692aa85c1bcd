// Package clock defines the current-time oracle consumed by the programs.
package clock

import "time"

// Clock provides the current ledger time as unsigned epoch seconds.
type Clock interface {
	Now() uint32
}

// Wall is a clock following the wall clock of the local machine.
//
// - implements clock.Clock
type Wall struct{}

// Now implements clock.Clock.
func (Wall) Now() uint32 {
	return uint32(time.Now().Unix())
}

// Fixed is a clock stuck at a chosen time. It is meant for tests and
// deterministic replays.
//
// - implements clock.Clock
type Fixed struct {
	Time uint32
}

// Now implements clock.Clock.
func (c Fixed) Now() uint32 {
	return c.Time
}
