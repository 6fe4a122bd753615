package rcc

import "clocktree-go/types"

// BusFrequencies derives every bus domain from a confirmed SYSCLK.
func BusFrequencies(sys types.Hertz, ahb AHBPrescaler, apb1, apb2 APBPrescaler) types.Clocks {
	hclk := AHBFrequency(sys, ahb)
	p1, t1 := APBFrequencies(hclk, apb1)
	p2, t2 := APBFrequencies(hclk, apb2)
	return types.Clocks{
		Sys:     sys,
		AHB1:    hclk,
		AHB2:    hclk,
		APB1:    p1,
		APB1Tim: t1,
		APB2:    p2,
		APB2Tim: t2,
	}
}

// AHBFrequency is HCLK for the given prescaler. HPRE has no ÷32, so codes
// from 0x0C on divide by 64..512 rather than following 1<<(code-7).
func AHBFrequency(sys types.Hertz, pre AHBPrescaler) types.Hertz {
	if pre == AHBNotDivided {
		return sys
	}
	return sys / types.Hertz(ahbShiftDivisor(pre.Code()))
}

// APBFrequencies returns (PCLK, timer kernel clock). Timers see twice PCLK
// whenever the APB prescaler divides.
func APBFrequencies(hclk types.Hertz, pre APBPrescaler) (types.Hertz, types.Hertz) {
	if pre == APBNotDivided {
		return hclk, hclk
	}
	pclk := hclk >> (uint32(pre.Code()) - 3)
	return pclk, pclk * 2
}
