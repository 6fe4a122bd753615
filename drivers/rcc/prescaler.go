package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/x/conv"
)

// codeNotDivided is the HPRE/PPRE value both tables use for "not divided".
const codeNotDivided = 0x01

// AHBPrescaler divides SYSCLK down to HCLK. The zero value is not divided.
type AHBPrescaler uint8

const (
	AHBNotDivided AHBPrescaler = iota
	AHBDiv2
	AHBDiv4
	AHBDiv8
	AHBDiv16
	AHBDiv64
	AHBDiv128
	AHBDiv256
	AHBDiv512

	numAHBPrescalers
)

// AHBPrescalers lists every variant.
var AHBPrescalers = []AHBPrescaler{
	AHBNotDivided, AHBDiv2, AHBDiv4, AHBDiv8, AHBDiv16,
	AHBDiv64, AHBDiv128, AHBDiv256, AHBDiv512,
}

// Code is the HPRE field value: 0x08..0x0f for the divided variants.
func (p AHBPrescaler) Code() uint8 {
	if p == AHBNotDivided || p >= numAHBPrescalers {
		return codeNotDivided
	}
	return 0x07 + uint8(p)
}

// Divisor is the division ratio encoded by Code.
func (p AHBPrescaler) Divisor() uint32 {
	return ahbShiftDivisor(p.Code())
}

// ahbShiftDivisor inverts the HPRE table. The hardware has no ÷32 step, so
// codes from 0x0c shift one further than code-7.
func ahbShiftDivisor(code uint8) uint32 {
	if code < 0x08 {
		return 1
	}
	shift := uint32(code) - 7
	if code >= 0x0c {
		shift++
	}
	return 1 << shift
}

func (p AHBPrescaler) String() string {
	if p == AHBNotDivided {
		return "div1"
	}
	return "div" + conv.U32(p.Divisor())
}

// AHBPrescalerFromCode decodes an HPRE value. Every 0b0xxx reads as not divided.
func AHBPrescalerFromCode(code uint8) (AHBPrescaler, error) {
	switch {
	case code < 0x08:
		return AHBNotDivided, nil
	case code <= 0x0f:
		return AHBPrescaler(code - 0x07), nil
	}
	return 0, errcode.Wrap(errcode.InvalidParams, "rcc.AHBPrescalerFromCode", "code "+conv.Hex8(code), nil)
}

// APBPrescaler divides HCLK down to PCLKx. The zero value is not divided.
type APBPrescaler uint8

const (
	APBNotDivided APBPrescaler = iota
	APBDiv2
	APBDiv4
	APBDiv8
	APBDiv16

	numAPBPrescalers
)

// APBPrescalers lists every variant.
var APBPrescalers = []APBPrescaler{APBNotDivided, APBDiv2, APBDiv4, APBDiv8, APBDiv16}

// Code is the PPREx field value: 0x04..0x07 for the divided variants.
func (p APBPrescaler) Code() uint8 {
	if p == APBNotDivided || p >= numAPBPrescalers {
		return codeNotDivided
	}
	return 0x03 + uint8(p)
}

// Divisor is the division ratio encoded by Code.
func (p APBPrescaler) Divisor() uint32 {
	c := p.Code()
	if c < 0x04 {
		return 1
	}
	return 1 << (uint32(c) - 3)
}

func (p APBPrescaler) String() string {
	return "div" + conv.U32(p.Divisor())
}

// APBPrescalerFromCode decodes a PPREx value. Every 0b0xx reads as not divided.
func APBPrescalerFromCode(code uint8) (APBPrescaler, error) {
	switch {
	case code < 0x04:
		return APBNotDivided, nil
	case code <= 0x07:
		return APBPrescaler(code - 0x03), nil
	}
	return 0, errcode.Wrap(errcode.InvalidParams, "rcc.APBPrescalerFromCode", "code "+conv.Hex8(code), nil)
}

// ParseAHBPrescaler accepts the String form ("div1", "div64", ...).
func ParseAHBPrescaler(s string) (AHBPrescaler, bool) {
	for _, p := range AHBPrescalers {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// ParseAPBPrescaler accepts the String form ("div1" .. "div16").
func ParseAPBPrescaler(s string) (APBPrescaler, bool) {
	for _, p := range APBPrescalers {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}
