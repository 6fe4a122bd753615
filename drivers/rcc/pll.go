package rcc

import (
	"clocktree-go/errcode"
	"clocktree-go/types"
	"clocktree-go/x/conv"
	"clocktree-go/x/mathx"
)

// PLL design point. M and R are fixed; N follows from the target and Q from
// the 48 MHz tap.
const (
	pllM = 4
	pllR = 2

	VCOInMin  = 2_660_000 * types.Hz
	VCOInMax  = 16 * types.MHz
	VCOOutMin = 96 * types.MHz
	VCOOutMax = 344 * types.MHz

	Tap48 = 48 * types.MHz
)

// PLLPlan is a validated divider/multiplier set.
type PLLPlan struct {
	M, N, R, Q uint32

	VCOIn  types.Hertz
	VCOOut types.Hertz
	Output types.Hertz // R tap, VCOOut / R
	Tap48  types.Hertz // Q tap, always 48 MHz

	RCode, QCode uint32
}

// SolvePLL derives the plan for input -> target.
//
// N is truncated, so Output may undershoot target. Low targets can truncate
// N to a VCO below range, which fails as InvalidVCOOutput.
func SolvePLL(input, target types.Hertz) (PLLPlan, error) {
	const op = "rcc.SolvePLL"

	vcoIn := input / pllM
	if !mathx.Between(vcoIn, VCOInMin, VCOInMax) {
		return PLLPlan{}, errcode.Wrap(errcode.InvalidVCOInput, op, "vco in "+vcoIn.String(), nil)
	}

	n := uint64(target) * pllR / uint64(vcoIn)
	vcoOut := uint64(vcoIn) * n
	if !mathx.Between(vcoOut, uint64(VCOOutMin), uint64(VCOOutMax)) {
		return PLLPlan{}, errcode.Wrap(errcode.InvalidVCOOutput, op, "vco out "+hzString(vcoOut), nil)
	}

	q, ok := mathx.DivExact(vcoOut, uint64(Tap48))
	if !ok {
		return PLLPlan{}, errcode.Wrap(errcode.Unachievable48MHzTap, op, "vco out "+hzString(vcoOut), nil)
	}

	rCode, err := DivisorCode(pllR)
	if err != nil {
		return PLLPlan{}, err
	}
	qCode, err := DivisorCode(uint32(q))
	if err != nil {
		return PLLPlan{}, err
	}

	out := types.Hertz(vcoOut)
	return PLLPlan{
		M:      pllM,
		N:      uint32(n),
		R:      pllR,
		Q:      uint32(q),
		VCOIn:  vcoIn,
		VCOOut: out,
		Output: out / pllR,
		Tap48:  out / types.Hertz(q),
		RCode:  rCode,
		QCode:  qCode,
	}, nil
}

// DivisorCode maps an R/Q divider in {2,4,6,8} to its 2-bit field value.
func DivisorCode(v uint32) (uint32, error) {
	switch v {
	case 2, 4, 6, 8:
		return v/2 - 1, nil
	}
	return 0, errcode.Wrap(errcode.InvalidDivisorCode, "rcc.DivisorCode", "divider "+conv.U32(v), nil)
}

// DivisorFromCode is the inverse of DivisorCode.
func DivisorFromCode(c uint32) (uint32, error) {
	if c > 3 {
		return 0, errcode.Wrap(errcode.InvalidDivisorCode, "rcc.DivisorFromCode", "code "+conv.U32(c), nil)
	}
	return (c + 1) * 2, nil
}

// hzString formats wide intermediates that may not fit a Hertz.
func hzString(v uint64) string {
	if v > uint64(^uint32(0)) {
		return ">4GHz"
	}
	return types.Hertz(v).String()
}
