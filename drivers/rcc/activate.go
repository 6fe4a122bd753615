package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/types"
	"clocktree-go/x/conv"
)

// Oscillator is a clock generator with an enable bit and a ready flag.
type Oscillator struct {
	Name  string
	On    Field
	Ready Field
}

var (
	OscHSI16 = Oscillator{Name: "hsi16", On: HSION, Ready: HSIRDY}
	OscHSE   = Oscillator{Name: "hse", On: HSEON, Ready: HSERDY}
	OscPLL   = Oscillator{Name: "pll", On: PLLON, Ready: PLLRDY}
)

// OscState is Off -> Enabling -> Ready.
type OscState uint8

const (
	OscOff OscState = iota
	OscEnabling
	OscReady
)

func (s OscState) String() string {
	switch s {
	case OscEnabling:
		return "enabling"
	case OscReady:
		return "ready"
	}
	return "off"
}

// State reads the oscillator's current state from the port.
func State(p Port, o Oscillator) OscState {
	v := p.Read(o.On.Reg)
	switch {
	case o.Ready.Get(v) != 0:
		return OscReady
	case o.On.Get(v) != 0:
		return OscEnabling
	}
	return OscOff
}

// enable drives o to Ready. An oscillator already running is left alone.
func (c *Controller) enable(o Oscillator) error {
	if State(c.port, o) == OscReady {
		return nil
	}
	Update(c.port, o.On.Reg, o.On.Val(1))
	if err := c.poll.Wait(func() bool { return IsSet(c.port, o.Ready) }); err != nil {
		return errcode.Wrap(errcode.Of(err), "rcc.enable", o.Name+" not ready", err)
	}
	c.logf("[rcc] " + o.Name + " ready")
	return nil
}

// activate brings up the planned source and returns the SW code selecting it.
func (c *Controller) activate(p Plan) (uint32, error) {
	src := p.Config.Source
	switch src.Kind() {
	case SourceHSE:
		return swHSE, c.enable(OscHSE)
	case SourcePLL:
		return swPLL, c.startPLL(src.PLLInput(), p.PLL)
	}
	return swHSI16, c.enable(OscHSI16)
}

// startPLL runs the input oscillator, programs the dividers, waits for lock
// and routes the Q tap to the 48 MHz consumers.
func (c *Controller) startPLL(in PLLInput, plan PLLPlan) error {
	input, pllSrc := OscHSI16, uint32(pllSrcHSI16)
	if in.IsHSE() {
		input, pllSrc = OscHSE, pllSrcHSE
	}
	if err := c.enable(input); err != nil {
		return err
	}

	Update(c.port, PLLCFGR,
		PLLSRC.Val(pllSrc),
		PLLM.Val(plan.M-1),
		PLLN.Val(plan.N),
		PLLR.Val(plan.RCode),
		PLLREN.Val(1),
		PLLQ.Val(plan.QCode),
		PLLQEN.Val(1),
	)
	if err := c.enable(OscPLL); err != nil {
		return err
	}
	c.logf("[rcc] pll locked n=" + conv.U32(plan.N) + " vco=" + plan.VCOOut.String() + " r=" + plan.Output.String())

	Update(c.port, CCIPR, CLK48SEL.Val(clk48PLLQ))
	return nil
}

// sourceFrequency is SYSCLK for a non-PLL source.
func sourceFrequency(s ClockSource) types.Hertz {
	if s.Kind() == SourceHSE {
		return s.HSEFreq()
	}
	return HSIFreq
}
