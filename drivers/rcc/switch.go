package rcc

import "clocktree-go/errcode"

// switchTo commits the source select and all three prescalers in one CFGR
// write, then waits for SWS to report the new source.
func (c *Controller) switchTo(sw uint32, cfg Config) error {
	Update(c.port, CFGR,
		SW.Val(sw),
		HPRE.Val(uint32(cfg.AHB.Code())),
		PPRE1.Val(uint32(cfg.APB1.Code())),
		PPRE2.Val(uint32(cfg.APB2.Code())),
	)
	if err := c.poll.Wait(func() bool { return ReadField(c.port, SWS) == sw }); err != nil {
		return errcode.Wrap(errcode.Of(err), "rcc.switchTo", "sysclk switch not confirmed", err)
	}
	c.logf("[rcc] sysclk switched to " + cfg.Source.String())
	return nil
}
