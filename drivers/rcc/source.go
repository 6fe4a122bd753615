package rcc

import "clocktree-go/types"

// HSIFreq is the fixed internal oscillator frequency.
const HSIFreq = 16 * types.MHz

// SourceKind selects the system clock mux input.
type SourceKind uint8

const (
	SourceHSI16 SourceKind = iota
	SourceHSE
	SourcePLL
)

func (k SourceKind) String() string {
	switch k {
	case SourceHSI16:
		return "hsi16"
	case SourceHSE:
		return "hse"
	case SourcePLL:
		return "pll"
	}
	return "unknown"
}

// PLLInput is the oscillator feeding the PLL: HSI16 or HSE at a board frequency.
type PLLInput struct {
	hse  bool
	freq types.Hertz
}

func PLLFromHSI16() PLLInput { return PLLInput{} }

func PLLFromHSE(f types.Hertz) PLLInput { return PLLInput{hse: true, freq: f} }

func (in PLLInput) IsHSE() bool { return in.hse }

// Frequency is the PLL input frequency before the M divider.
func (in PLLInput) Frequency() types.Hertz {
	if in.hse {
		return in.freq
	}
	return HSIFreq
}

func (in PLLInput) String() string {
	if in.hse {
		return "hse@" + in.freq.String()
	}
	return "hsi16"
}

// ClockSource is the requested SYSCLK source. Build it with HSI16, HSE or PLL;
// the zero value is HSI16.
type ClockSource struct {
	kind   SourceKind
	hse    types.Hertz
	pllIn  PLLInput
	target types.Hertz
}

func HSI16() ClockSource { return ClockSource{kind: SourceHSI16} }

func HSE(f types.Hertz) ClockSource { return ClockSource{kind: SourceHSE, hse: f} }

// PLL drives SYSCLK from the PLL R tap, aiming at target.
func PLL(in PLLInput, target types.Hertz) ClockSource {
	return ClockSource{kind: SourcePLL, pllIn: in, target: target}
}

func (s ClockSource) Kind() SourceKind { return s.kind }

func (s ClockSource) PLLInput() PLLInput { return s.pllIn }

func (s ClockSource) Target() types.Hertz { return s.target }

func (s ClockSource) HSEFreq() types.Hertz { return s.hse }

func (s ClockSource) String() string {
	switch s.kind {
	case SourceHSE:
		return "hse@" + s.hse.String()
	case SourcePLL:
		return "pll(" + s.pllIn.String() + ")->" + s.target.String()
	}
	return "hsi16"
}

// Config is the clock tree request. The zero value equals DefaultConfig.
type Config struct {
	Source      ClockSource
	AHB         AHBPrescaler
	APB1        APBPrescaler
	APB2        APBPrescaler
	LowPowerRun bool
}

// DefaultConfig runs everything from HSI16 undivided.
func DefaultConfig() Config {
	return Config{
		Source: HSI16(),
		AHB:    AHBNotDivided,
		APB1:   APBNotDivided,
		APB2:   APBNotDivided,
	}
}
