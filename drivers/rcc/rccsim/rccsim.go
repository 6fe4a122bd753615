//go:build !tinygo && !baremetal

// Package rccsim is a host-side model of the RCC/PWR/FLASH registers behind
// rcc.Port. Oscillators come up when enabled (optionally after a number of
// CR reads). The PLL locks only when its input is running and PLLN is in
// 8..127. SWS follows SW. Options make any of these stick so "never ready"
// paths can be tested.
package rccsim

import "clocktree-go/drivers/rcc"

// Reset values after power-on.
const (
	ResetCR       = 0x0000_0500 // HSION | HSIRDY
	ResetCFGR     = 0x0000_0005 // SW = SWS = HSI16
	ResetPLLCFGR  = 0x0000_1000 // PLLN = 16
	ResetPWRCR1   = 0x0000_0200
	ResetFLASHACR = 0x0000_0600 // ICEN | DCEN, zero wait states
)

// PLLN range the PLL can lock with.
const (
	pllNMin = 8
	pllNMax = 127
)

// Write is one recorded register write.
type Write struct {
	Reg   rcc.Register
	Value uint32
}

type Option func(*Port)

// Stuck keeps o from ever reporting ready.
func Stuck(o rcc.Oscillator) Option {
	return func(p *Port) { p.stuck[o.Name] = true }
}

// SwitchStuck keeps SWS at its old value whatever SW says.
func SwitchStuck() Option {
	return func(p *Port) { p.switchStuck = true }
}

// ReadyAfter delays every ready flag by n reads of RCC_CR.
func ReadyAfter(n int) Option {
	return func(p *Port) { p.readyAfter = n }
}

var oscillators = []rcc.Oscillator{rcc.OscHSI16, rcc.OscHSE, rcc.OscPLL}

// Port implements rcc.Port. Not safe for concurrent use, like the hardware
// sequence it stands in for.
type Port struct {
	regs   [rcc.NumRegisters]uint32
	writes []Write

	stuck       map[string]bool
	switchStuck bool
	readyAfter  int
	pending     map[string]int
}

func New(opts ...Option) *Port {
	p := &Port{
		stuck:   map[string]bool{},
		pending: map[string]int{},
	}
	p.regs[rcc.CR] = ResetCR
	p.regs[rcc.CFGR] = ResetCFGR
	p.regs[rcc.PLLCFGR] = ResetPLLCFGR
	p.regs[rcc.PWRCR1] = ResetPWRCR1
	p.regs[rcc.FLASHACR] = ResetFLASHACR
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Port) Read(r rcc.Register) uint32 {
	if r == rcc.CR {
		p.tick()
	}
	return p.regs[r]
}

func (p *Port) Write(r rcc.Register, v uint32) {
	p.writes = append(p.writes, Write{Reg: r, Value: v})
	switch r {
	case rcc.CR:
		p.writeCR(v)
	case rcc.CFGR:
		old := p.regs[rcc.CFGR]
		v = rcc.SWS.Put(v, rcc.SWS.Get(old))
		if !p.switchStuck {
			v = rcc.SWS.Put(v, rcc.SW.Get(v))
		}
		p.regs[rcc.CFGR] = v
	default:
		p.regs[r] = v
	}
}

// Peek returns a register without advancing the model.
func (p *Port) Peek(r rcc.Register) uint32 { return p.regs[r] }

// Writes returns every write so far, in order.
func (p *Port) Writes() []Write { return append([]Write(nil), p.writes...) }

func (p *Port) writeCR(v uint32) {
	// Ready flags are read-only.
	var rdyMask uint32
	for _, o := range oscillators {
		rdyMask |= o.Ready.Mask()
	}
	v = v&^rdyMask | p.regs[rcc.CR]&rdyMask
	p.regs[rcc.CR] = v

	for _, o := range oscillators {
		on := o.On.Get(v) != 0
		rdy := o.Ready.Get(v) != 0
		switch {
		case !on:
			p.regs[rcc.CR] = o.Ready.Put(p.regs[rcc.CR], 0)
			delete(p.pending, o.Name)
		case !rdy && !p.stuck[o.Name]:
			if _, waiting := p.pending[o.Name]; !waiting {
				p.pending[o.Name] = p.readyAfter
			}
		}
	}
	p.settle()
}

// tick counts one CR read against every pending oscillator.
func (p *Port) tick() {
	for name, n := range p.pending {
		if n > 0 {
			p.pending[name] = n - 1
		}
	}
	p.settle()
}

func (p *Port) settle() {
	for _, o := range oscillators {
		n, waiting := p.pending[o.Name]
		if !waiting || n > 0 {
			continue
		}
		if o.Name == rcc.OscPLL.Name && !p.pllCanLock() {
			continue
		}
		p.regs[rcc.CR] = o.Ready.Put(p.regs[rcc.CR], 1)
		delete(p.pending, o.Name)
	}
}

// pllCanLock needs a running input and a PLLN the VCO can follow.
func (p *Port) pllCanLock() bool {
	n := rcc.PLLN.Get(p.regs[rcc.PLLCFGR])
	if n < pllNMin || n > pllNMax {
		return false
	}
	cr := p.regs[rcc.CR]
	switch rcc.PLLSRC.Get(p.regs[rcc.PLLCFGR]) {
	case 0b10:
		return rcc.HSIRDY.Get(cr) != 0
	case 0b11:
		return rcc.HSERDY.Get(cr) != 0
	}
	return false
}
