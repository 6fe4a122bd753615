package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/types"
	"clocktree-go/x/conv"
)

// Wait-state ceilings for voltage range 1, normal mode (RM0440 table 29).
var flashLatencyMax = [...]types.Hertz{
	30 * types.MHz,
	60 * types.MHz,
	90 * types.MHz,
	120 * types.MHz,
}

// FlashLatency is the number of flash wait states SYSCLK needs.
func FlashLatency(sys types.Hertz) uint32 {
	for ws, ceil := range flashLatencyMax {
		if sys <= ceil {
			return uint32(ws)
		}
	}
	return uint32(len(flashLatencyMax))
}

// raiseFlashLatency programs the wait states for sys before the switch when
// more are needed. It never lowers them: a slower clock with extra wait
// states is only slower.
func (c *Controller) raiseFlashLatency(sys types.Hertz) error {
	ws := FlashLatency(sys)
	if ws == 0 || ReadField(c.port, LATENCY) >= ws {
		return nil
	}
	Update(c.port, FLASHACR, LATENCY.Val(ws))
	if err := c.poll.Wait(func() bool { return ReadField(c.port, LATENCY) == ws }); err != nil {
		return errcode.Wrap(errcode.Of(err), "rcc.raiseFlashLatency", "latency not applied", err)
	}
	c.logf("[rcc] flash latency " + conv.U32(ws))
	return nil
}
