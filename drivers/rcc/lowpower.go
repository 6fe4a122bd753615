package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/types"
)

// LowPowerRunMax is the SYSCLK ceiling for low-power run.
const LowPowerRunMax = 2 * types.MHz

// CheckLowPower validates a low-power-run request against SYSCLK.
func CheckLowPower(requested bool, sys types.Hertz) error {
	if requested && sys > LowPowerRunMax {
		return errcode.Wrap(errcode.LowPowerFrequencyExceeded, "rcc.CheckLowPower", "sysclk "+sys.String(), nil)
	}
	return nil
}

// enterLowPowerRun sets PWR_CR1.LPR. The PWR interface clock has to be on
// before PWR registers accept writes.
func (c *Controller) enterLowPowerRun() {
	Update(c.port, APB1ENR1, PWREN.Val(1))
	Update(c.port, PWRCR1, LPR.Val(1))
	c.logf("[rcc] low-power run")
}
