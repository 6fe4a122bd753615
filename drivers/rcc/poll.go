package rcc

import "clocktree-go/errcode"

// Poller waits for a hardware status bit. Production code spins forever;
// tests and host tools bound the wait.
type Poller interface {
	Wait(ready func() bool) error
}

// PollerFunc adapts a function to Poller.
type PollerFunc func(ready func() bool) error

func (f PollerFunc) Wait(ready func() bool) error { return f(ready) }

// Spin busy-waits with no timeout. A source that never comes up hangs here.
type Spin struct{}

func (Spin) Wait(ready func() bool) error {
	for !ready() {
	}
	return nil
}

// Bounded gives up after n unsuccessful checks with errcode.Timeout.
type Bounded int

func (b Bounded) Wait(ready func() bool) error {
	for i := 0; i < int(b); i++ {
		if ready() {
			return nil
		}
	}
	return errcode.Timeout
}
