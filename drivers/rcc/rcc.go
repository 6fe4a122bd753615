// Package rcc configures the STM32G4 reset and clock control block: it picks
// the SYSCLK source, plans and locks the PLL, switches the clock mux and
// derives the bus frequencies.
//
// Design notes (RM0440):
// • HSI16 is fixed at 16 MHz; HSE is whatever the board fits.
// • PLL: M fixed at 4, R fixed at 2, Q sized so the 48 MHz tap is exact.
// • VCO input 2.66..16 MHz, VCO output 96..344 MHz (voltage range 1).
// • Every validation happens in NewPlan, before the first register write;
//   Commit re-derives the plan so hand-built plans cannot skip it.
// • Flash wait states are raised before SYSCLK is switched up.
// • Ready/switch flags are waited on through a Poller; production spins.
package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/types"
)

// Plan is a fully validated configuration, ready to commit.
type Plan struct {
	Config Config
	SysClk types.Hertz
	PLL    PLLPlan // zero unless Config.Source is a PLL
}

// Clocks derives the bus frequencies the plan yields.
func (p Plan) Clocks() types.Clocks {
	return BusFrequencies(p.SysClk, p.Config.AHB, p.Config.APB1, p.Config.APB2)
}

// NewPlan resolves the source frequency, solves the PLL when needed and
// checks the low-power ceiling. It never touches hardware.
func NewPlan(cfg Config) (Plan, error) {
	p := Plan{Config: cfg}
	switch cfg.Source.Kind() {
	case SourcePLL:
		pll, err := SolvePLL(cfg.Source.PLLInput().Frequency(), cfg.Source.Target())
		if err != nil {
			return Plan{}, err
		}
		p.PLL = pll
		p.SysClk = pll.Output
	default:
		p.SysClk = sourceFrequency(cfg.Source)
	}
	if p.SysClk == 0 {
		return Plan{}, errcode.Wrap(errcode.InvalidParams, "rcc.NewPlan", "zero source frequency", nil)
	}
	if err := CheckLowPower(cfg.LowPowerRun, p.SysClk); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Controller sequences register writes through a Port.
type Controller struct {
	port Port
	poll Poller
	log  func(string)
}

// New returns a controller. A nil poller means Spin.
func New(port Port, poll Poller) *Controller {
	if poll == nil {
		poll = Spin{}
	}
	return &Controller{port: port, poll: poll}
}

// WithLogger sets a line logger (println on target, log.Println on host).
func (c *Controller) WithLogger(fn func(string)) *Controller {
	c.log = fn
	return c
}

func (c *Controller) logf(s string) {
	if c.log != nil {
		c.log(s)
	}
}

// Init plans cfg and, only if the plan is valid, brings up the source,
// switches SYSCLK and enters low-power run when asked. It returns the
// resulting bus frequencies. Call it once, before anything else runs.
func (c *Controller) Init(cfg Config) (types.Clocks, error) {
	p, err := NewPlan(cfg)
	if err != nil {
		return types.Clocks{}, err
	}
	return c.Commit(p)
}

// Commit applies a plan produced by NewPlan. The plan is re-derived from its
// Config first; a plan that NewPlan would reject or would not have produced
// fails before any register write.
func (c *Controller) Commit(p Plan) (types.Clocks, error) {
	want, err := NewPlan(p.Config)
	if err != nil {
		return types.Clocks{}, err
	}
	if p != want {
		return types.Clocks{}, errcode.Wrap(errcode.InvalidParams, "rcc.Commit", "plan does not match its config", nil)
	}

	sw, err := c.activate(p)
	if err != nil {
		return types.Clocks{}, err
	}
	if err := c.raiseFlashLatency(p.SysClk); err != nil {
		return types.Clocks{}, err
	}
	if err := c.switchTo(sw, p.Config); err != nil {
		return types.Clocks{}, err
	}
	if p.Config.LowPowerRun {
		c.enterLowPowerRun()
	}
	return p.Clocks(), nil
}
