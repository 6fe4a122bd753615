// Package clock owns the frequency plan once the clock tree is up: a
// write-once cell that every driver reads, and a bus service that announces
// it as retained messages and answers per-domain queries.
package clock

import (
	"sync/atomic"

	"clocktree-go/drivers/rcc"
	"clocktree-go/errcode"
	"clocktree-go/types"
)

// Cell holds a types.Clocks that can be set exactly once.
// Readers never lock.
type Cell struct {
	p atomic.Pointer[types.Clocks]
}

// Publish stores c. A second call fails with errcode.AlreadyPublished and
// leaves the first value in place.
func (cl *Cell) Publish(c types.Clocks) error {
	v := c
	if !cl.p.CompareAndSwap(nil, &v) {
		return errcode.Wrap(errcode.AlreadyPublished, "clock.Publish", "", nil)
	}
	return nil
}

// Load returns the published plan, or false before publication.
func (cl *Cell) Load() (types.Clocks, bool) {
	p := cl.p.Load()
	if p == nil {
		return types.Clocks{}, false
	}
	return *p, true
}

// Frequency returns one domain of the published plan.
func (cl *Cell) Frequency(d types.Domain) (types.Hertz, error) {
	c, ok := cl.Load()
	if !ok {
		return 0, errcode.NotPublished
	}
	f, ok := c.Get(d)
	if !ok {
		return 0, errcode.Wrap(errcode.UnknownDomain, "clock.Frequency", string(d), nil)
	}
	return f, nil
}

// ---- process-wide cell ----

var global Cell

// Publish sets the process-wide plan.
func Publish(c types.Clocks) error { return global.Publish(c) }

// Current returns the process-wide plan.
func Current() (types.Clocks, bool) { return global.Load() }

// Frequency queries the process-wide plan.
func Frequency(d types.Domain) (types.Hertz, error) { return global.Frequency(d) }

// Default exposes the process-wide cell to services.
func Default() *Cell { return &global }

// Initializer is what Configure needs from the RCC driver.
type Initializer interface {
	Init(cfg rcc.Config) (types.Clocks, error)
}

// Configure brings the clock tree up and publishes the result into cell.
// Nothing is published when Init fails.
func Configure(ctrl Initializer, cfg rcc.Config, cell *Cell) (types.Clocks, error) {
	if cell == nil {
		cell = &global
	}
	c, err := ctrl.Init(cfg)
	if err != nil {
		return types.Clocks{}, err
	}
	if err := cell.Publish(c); err != nil {
		return c, err
	}
	return c, nil
}
